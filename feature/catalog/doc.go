// Package catalog implements the client for the streaming availability
// catalog API.
//
// The Service wraps three lookups (show by identity, title search, and
// the country/provider catalog) behind a shared rate limiter and two
// cache tiers: session-lived in-memory caches for shows and searches,
// and a 7-day persisted cache for the provider catalog.
//
// Failures classify into a small taxonomy (see errors.go); credential
// validation happens before any network call.
package catalog
