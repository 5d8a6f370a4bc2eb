package sync

// Frontmatter field names.
const (
	FieldFileName   = "File Name"
	FieldType       = "Type"
	FieldYear       = "Year"
	FieldDirectors  = "Directors"
	FieldCast       = "Cast"
	FieldOverview   = "Overview"
	FieldGenres     = "Genres"
	FieldPoster     = "Poster"
	FieldRuntime    = "Runtime"
	FieldRating     = "Rating"
	FieldSeasons    = "Seasons"
	FieldEpisodes   = "Episodes"
	FieldWatched    = "Watched"
	FieldLastSynced = "Last Synced"
	FieldTmdbID     = "tmdb_id"
)

// DefaultEnabledFields is the out-of-the-box allow-list. Type and
// tmdb_id are not listed because they are always enabled.
func DefaultEnabledFields() []string {
	return []string{
		FieldFileName,
		FieldPoster,
		FieldYear,
		FieldDirectors,
		FieldCast,
		FieldOverview,
		FieldGenres,
		FieldRuntime,
		FieldRating,
		FieldSeasons,
		FieldEpisodes,
	}
}

// Policy decides whether a computed change is applied. The two identity
// fields are always enabled; provider-derived fields (streaming service
// and media server instance names) are enabled by recognition; the rest
// consult the allow-list.
type Policy struct {
	allowed   map[string]bool
	providers map[string]bool
}

// NewPolicy builds a policy from the allow-list and the recognized
// provider field names. An empty allow-list falls back to the defaults.
func NewPolicy(enabled, providerNames []string) Policy {
	if len(enabled) == 0 {
		enabled = DefaultEnabledFields()
	}

	p := Policy{
		allowed:   make(map[string]bool, len(enabled)),
		providers: make(map[string]bool, len(providerNames)),
	}
	for _, f := range enabled {
		p.allowed[f] = true
	}
	for _, n := range providerNames {
		p.providers[n] = true
	}
	return p
}

// IsEnabled reports whether changes to the field are applied.
func (p Policy) IsEnabled(field string) bool {
	if field == FieldType || field == FieldTmdbID {
		return true
	}
	if p.providers[field] {
		return true
	}
	return p.allowed[field]
}
