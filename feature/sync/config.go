package sync

// ServiceSelection is one streaming service the user tracks. ID matches
// the catalog's service id; Name is the frontmatter field the offer
// description is written to.
type ServiceSelection struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// Config holds the synchronization feature configuration.
type Config struct {
	// EnabledFields overrides the default field allow-list. Empty keeps
	// the defaults. Streaming service and media server instance names
	// are always treated as enabled regardless of this list.
	EnabledFields []string `mapstructure:"enabled_fields"`
	// Services are the streaming services whose offers are written into
	// documents.
	Services []ServiceSelection `mapstructure:"services"`
	// PosterMode is remote, local, or none. remote writes the poster
	// URL; local embeds a vault asset link and mirrors the image; none
	// disables the Poster field.
	PosterMode string `mapstructure:"poster_mode" default:"remote"`
	// MovieFilenameTemplate names movie documents. Placeholders:
	// ${title}, ${year}, ${tmdb_id}.
	MovieFilenameTemplate string `mapstructure:"movie_filename_template" default:"${title} (${year})"`
	// SeriesFilenameTemplate names series documents. Additional
	// placeholders: ${firstAirYear}, ${lastAirYear}.
	SeriesFilenameTemplate string `mapstructure:"series_filename_template" default:"${title} (${firstAirYear})"`
}

// Poster modes.
const (
	PosterModeRemote = "remote"
	PosterModeLocal  = "local"
	PosterModeNone   = "none"
)
