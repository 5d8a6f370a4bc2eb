package catalog

// Config holds configuration for the streaming catalog API client.
type Config struct {
	// ApiKey is the RapidAPI key for the catalog API. Must be exactly
	// 50 characters; every operation refuses to hit the network with a
	// malformed key.
	ApiKey string `mapstructure:"api_key" default:""`
	// Country is the lowercase country code availability is filtered by.
	Country string `mapstructure:"country" default:"us"`
	// BaseURL is the catalog API endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://streaming-availability.p.rapidapi.com"`
	// RequestsPerSecond caps the outgoing request rate.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"10"`
	// QuotaWarnThreshold is the quota-used percentage that triggers a
	// one-time warning. 0 disables the warning.
	QuotaWarnThreshold int `mapstructure:"quota_warn_threshold" default:"80"`
	// CatalogTTLDays is how long the persisted country/provider catalog
	// stays fresh.
	CatalogTTLDays int `mapstructure:"catalog_ttl_days" default:"7"`
}
