package mediaserver

// Instance is one configured Jellyfin media server.
type Instance struct {
	// Name is the user-defined display name; it doubles as the
	// frontmatter field name the availability is written to.
	Name string `mapstructure:"name" json:"name"`
	// URL is the server base URL, e.g. http://localhost:8096.
	URL string `mapstructure:"url" json:"url"`
	// ApiKey authenticates against the server.
	ApiKey string `mapstructure:"api_key" json:"-"`
	// UserID scopes watch-state lookups; empty disables them.
	UserID string `mapstructure:"user_id" json:"user_id,omitempty"`
}

// Config holds the media server feature configuration.
type Config struct {
	// Instances are the servers checked during availability aggregation.
	Instances []Instance `mapstructure:"instances"`
	// CacheTTLSeconds is how long per-instance item listings stay
	// cached. The listing is one request per instance and media type,
	// so a short TTL keeps bulk syncs from hammering the servers.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// Availability is the per-instance result of an availability check.
// One is produced for every configured instance, independently.
type Availability struct {
	// InstanceName echoes Instance.Name.
	InstanceName string `json:"instance_name"`
	// Available reports whether the title exists in the instance's
	// library. Degraded instances report false rather than an error.
	Available bool `json:"available"`
	// ItemID is the instance-local item id when available.
	ItemID string `json:"item_id,omitempty"`
	// Watched is the user's watch state, when a user id is configured.
	Watched bool `json:"watched,omitempty"`
}

// Item is a library item as returned by the Jellyfin Items endpoint.
type Item struct {
	Name        string            `json:"Name"`
	ID          string            `json:"Id"`
	Type        string            `json:"Type"`
	ProviderIDs map[string]string `json:"ProviderIds,omitempty"`
	UserData    *UserData         `json:"UserData,omitempty"`
}

// UserData carries per-user playback state for an item.
type UserData struct {
	Played     bool `json:"Played"`
	PlayCount  int  `json:"PlayCount"`
	IsFavorite bool `json:"IsFavorite"`
}

// itemsResponse is the envelope of the Items endpoint.
type itemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}
