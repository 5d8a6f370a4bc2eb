// Package database manages the GORM connection used for persisted
// state: sync job history and the long-lived provider catalog cache.
//
// Both mysql and sqlite drivers are supported; sqlite is the default so
// a single-binary deployment needs no external database. The connection
// is optional; every feature degrades to in-memory behavior when it is
// absent.
package database
