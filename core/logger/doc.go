// Package logger provides structured logging based on Zap.
//
// It builds a configured logger supporting development and production
// environments and integrates with the Fiber HTTP surface.
//
// # Context Awareness
//
// The WithRayID helper extracts the request's RayID from a Fiber context
// and attaches it to the log entry so that all logs for one request can
// be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
package logger
