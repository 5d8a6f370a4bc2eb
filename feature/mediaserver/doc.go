// Package mediaserver checks title availability across Jellyfin
// instances.
//
// The Service fans one check out to every configured instance
// concurrently and always returns one result per instance, in
// configuration order. Instance failures degrade to "not available"
// instead of failing the whole check. Library listings are cached per
// instance and media type so bulk syncs stay cheap.
package mediaserver
