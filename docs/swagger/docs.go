// Package swagger provides the generated API documentation served at
// /swagger/*.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/catalog/countries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List countries",
                "description": "Returns the country and streaming provider catalog (7-day cache).",
                "responses": {
                    "200": {"description": "Country catalog"},
                    "502": {"description": "Upstream error"}
                }
            }
        },
        "/catalog/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Search shows",
                "description": "Search the catalog by title in the configured country.",
                "parameters": [
                    {"type": "string", "name": "title", "in": "query", "required": true, "description": "Title to search for"}
                ],
                "responses": {
                    "200": {"description": "Matching shows"},
                    "400": {"description": "Missing title"}
                }
            }
        },
        "/catalog/shows/{type}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get show",
                "description": "Get canonical metadata by media type and TMDB id.",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true, "description": "Media type (movie or series)"},
                    {"type": "integer", "name": "id", "in": "path", "required": true, "description": "TMDB id"}
                ],
                "responses": {
                    "200": {"description": "Canonical metadata"},
                    "404": {"description": "No match"}
                }
            }
        },
        "/availability/{type}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["availability"],
                "summary": "Check availability",
                "description": "Checks all configured media server instances for the given title.",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true, "description": "Media type (movie or series)"},
                    {"type": "integer", "name": "id", "in": "path", "required": true, "description": "TMDB id"}
                ],
                "responses": {
                    "200": {"description": "Per-instance results"},
                    "400": {"description": "Bad identity"}
                }
            }
        },
        "/sync/documents": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Sync one document",
                "description": "Resolves the document's identity, fetches canonical metadata and availability, and applies the enabled field changes.",
                "responses": {
                    "200": {"description": "Sync outcome"},
                    "400": {"description": "Bad request"},
                    "404": {"description": "No identity found"}
                }
            }
        },
        "/sync/batch": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Start batch sync",
                "description": "Starts a background batch synchronization across every vault document and returns the job.",
                "responses": {
                    "202": {"description": "Started job"},
                    "500": {"description": "Vault listing failed"}
                }
            }
        },
        "/sync/jobs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Get job status",
                "description": "Returns a point-in-time snapshot of a batch job, including errors grouped by message.",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Job id"}
                ],
                "responses": {
                    "200": {"description": "Job snapshot"},
                    "404": {"description": "Unknown job"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Cancel job",
                "description": "Requests cancellation; the in-flight document finishes, no further document starts.",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Job id"}
                ],
                "responses": {
                    "202": {"description": "Job snapshot after the cancel request"},
                    "404": {"description": "Unknown job"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "StreamSync API",
	Description:      "API for synchronizing streaming metadata into a markdown vault.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
