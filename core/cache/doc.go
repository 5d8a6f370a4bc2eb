// Package cache provides a generic keyed TTL cache.
//
// It backs the catalog client (show and search lookups) and the media
// server item listings. Instances are owned by the service that creates
// them and torn down with it; there is no ambient global cache.
//
// # Expiry
//
// TTL is a construction-time parameter, not per-entry. Get evicts stale
// entries itself, so a caller can never observe a value older than the
// configured TTL. There is no size-based eviction; Clear resets the
// store wholesale.
package cache
