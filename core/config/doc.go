// Package config loads the application configuration.
//
// Configuration is assembled from three sources, later sources winning:
// struct-tag defaults, an optional config.yaml, and environment
// variables (optionally via a .env file). Nested keys map to
// SECTION_KEY environment variables, e.g. CATALOG_API_KEY.
//
// Each configuration section is a partial Config struct owned by the
// package it configures; this package only composes them.
package config
