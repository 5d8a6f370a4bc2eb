package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaType distinguishes movies from TV series.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// ParseMediaType normalizes a frontmatter Type value into a MediaType.
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie, true
	case "series", "tv", "show":
		return MediaTypeSeries, true
	default:
		return "", false
	}
}

// Identity is the join key between catalog metadata, media server
// availability, and document frontmatter. Once an identity is known,
// lookups never fall back to fuzzy title matching.
type Identity struct {
	// TmdbID is the numeric TMDB identifier.
	TmdbID int
	// Type is the media type the identifier belongs to.
	Type MediaType
}

// APIPath renders the identity the way the catalog API addresses shows,
// e.g. "movie/603" or "tv/1396".
func (id Identity) APIPath() string {
	kind := "movie"
	if id.Type == MediaTypeSeries {
		kind = "tv"
	}
	return fmt.Sprintf("%s/%d", kind, id.TmdbID)
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return id.APIPath()
}

// Show is the canonical metadata record for one title. It is a value
// object: retrieved fresh or served from cache, never mutated after
// retrieval.
type Show struct {
	ItemType      string    `json:"itemType"`
	ShowType      MediaType `json:"showType"`
	ID            string    `json:"id"`
	ImdbID        string    `json:"imdbId"`
	TmdbID        string    `json:"tmdbId"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle"`
	Overview      string    `json:"overview"`
	ReleaseYear   int       `json:"releaseYear,omitempty"`
	FirstAirYear  int       `json:"firstAirYear,omitempty"`
	LastAirYear   int       `json:"lastAirYear,omitempty"`
	Genres        []Genre   `json:"genres"`
	Directors     []string  `json:"directors,omitempty"`
	Creators      []string  `json:"creators,omitempty"`
	Cast          []string  `json:"cast"`
	Rating        float64   `json:"rating"`
	Runtime       int       `json:"runtime,omitempty"`
	SeasonCount   int       `json:"seasonCount,omitempty"`
	EpisodeCount  int       `json:"episodeCount,omitempty"`
	ImageSet      ImageSet  `json:"imageSet"`

	// StreamingOptions maps a lowercase country code to the offers
	// available there.
	StreamingOptions map[string][]StreamingOption `json:"streamingOptions"`
}

// NumericTmdbID extracts the numeric part of the "movie/603" style
// TmdbID the API returns.
func (s *Show) NumericTmdbID() int {
	raw := s.TmdbID
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		raw = raw[idx+1:]
	}
	n, _ := strconv.Atoi(raw)
	return n
}

// Year returns the release year for movies or the first air year for
// series, whichever is set.
func (s *Show) Year() int {
	if s.ReleaseYear != 0 {
		return s.ReleaseYear
	}
	return s.FirstAirYear
}

// Identity returns the show's join key.
func (s *Show) Identity() Identity {
	return Identity{TmdbID: s.NumericTmdbID(), Type: s.ShowType}
}

// Genre is a genre reference.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ImageSet groups the poster renditions the API exposes.
type ImageSet struct {
	VerticalPoster PosterSet `json:"verticalPoster"`
}

// PosterSet holds poster URLs by width.
type PosterSet struct {
	W240 string `json:"w240"`
	W360 string `json:"w360"`
	W480 string `json:"w480"`
	W600 string `json:"w600"`
	W720 string `json:"w720"`
}

// StreamingOption is one provider offer for a show in one country.
type StreamingOption struct {
	Service ServiceRef `json:"service"`
	// Type is the offer kind: subscription, addon, rent, buy, free.
	Type string `json:"type"`
	// Addon is set for offers that require a channel subscription on
	// top of the base service.
	Addon *Addon `json:"addon,omitempty"`
	// Link is the provider deep link for the show.
	Link string `json:"link"`
	// ExpiresOn is the unix timestamp the offer leaves the catalog,
	// zero when the offer has no announced expiry.
	ExpiresOn int64 `json:"expiresOn,omitempty"`
}

// ServiceRef identifies the streaming service of an offer.
type ServiceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Addon is a channel sold through a base streaming service.
type Addon struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StreamingService describes a streaming service available in a
// country, as listed by the provider catalog.
type StreamingService struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Addons map[string]Addon `json:"addons,omitempty"`
}

// Country is one entry of the provider catalog: a country and the
// services operating there.
type Country struct {
	CountryCode string             `json:"countryCode"`
	Name        string             `json:"name"`
	Services    []StreamingService `json:"services"`
}
