package sync

import (
	"html"
	"strconv"
	"strings"

	"stream-sync/core/utils"
	"stream-sync/feature/catalog"
	"stream-sync/feature/mediaserver"
)

// EmptyValue is the sentinel shown for fields that are newly populated.
const EmptyValue = "(empty)"

// Change is one field-level difference between a document and the
// canonical state.
type Change struct {
	// Field is the frontmatter field name (or "File Name" for renames).
	Field string `json:"field"`
	// OldValue is the document's normalized value, or "(empty)".
	OldValue string `json:"old_value"`
	// NewValue is the proposed normalized value.
	NewValue string `json:"new_value"`
	// Enabled reports whether the policy approves applying the change.
	Enabled bool `json:"enabled"`
	// IsAsset marks image fields so rendering surfaces can preview them
	// instead of showing a text diff.
	IsAsset bool `json:"is_asset"`

	// value is the typed frontmatter value applied for this change.
	value any
}

// Value returns the typed value to write when applying the change.
func (c Change) Value() any {
	if c.value != nil {
		return c.value
	}
	return c.NewValue
}

// Reconciler computes field-level changes from canonical metadata and
// availability results.
type Reconciler struct {
	cfg      Config
	policy   Policy
	country  string
	assetDir string
}

// NewReconciler builds a reconciler. country selects the offer list;
// assetDir is the vault-relative directory local posters embed from;
// instanceNames joins the configured service names in the policy's
// provider override set.
func NewReconciler(cfg Config, country, assetDir string, instanceNames []string) *Reconciler {
	providers := make([]string, 0, len(cfg.Services)+len(instanceNames))
	for _, s := range cfg.Services {
		providers = append(providers, s.Name)
	}
	providers = append(providers, instanceNames...)

	return &Reconciler{
		cfg:      cfg,
		policy:   NewPolicy(cfg.EnabledFields, providers),
		country:  country,
		assetDir: assetDir,
	}
}

// Policy exposes the reconciler's enablement policy.
func (r *Reconciler) Policy() Policy {
	return r.policy
}

// Filename renders the document name (without extension) for a show.
func (r *Reconciler) Filename(show *catalog.Show) string {
	template := r.cfg.MovieFilenameTemplate
	if show.ShowType == catalog.MediaTypeSeries {
		template = r.cfg.SeriesFilenameTemplate
	}
	return renderFilename(template, show)
}

// ComputeChanges diffs a document's current fields against the
// canonical metadata and availability results. A change is emitted only
// when the proposed normalized value is non-empty and differs from the
// current one; newly populated fields show "(empty)" as the old value.
func (r *Reconciler) ComputeChanges(docName string, current map[string]any, show *catalog.Show, availability []mediaserver.Availability) []Change {
	var changes []Change

	add := func(field, proposed string, value any, isAsset bool) {
		if proposed == "" {
			return
		}
		old := normalizeValue(current[field])
		if field == FieldFileName {
			old = docName
		}
		if old == proposed {
			return
		}
		if old == "" {
			old = EmptyValue
		}
		changes = append(changes, Change{
			Field:    field,
			OldValue: old,
			NewValue: proposed,
			Enabled:  r.policy.IsEnabled(field),
			IsAsset:  isAsset,
			value:    value,
		})
	}

	add(FieldFileName, r.Filename(show), nil, false)
	add(FieldType, string(show.ShowType), nil, false)
	if year := show.Year(); year > 0 {
		add(FieldYear, strconv.Itoa(year), year, false)
	}

	people := show.Directors
	if show.ShowType == catalog.MediaTypeSeries {
		people = show.Creators
	}
	add(FieldDirectors, strings.Join(people, ", "), people, false)
	add(FieldCast, strings.Join(show.Cast, ", "), show.Cast, false)
	add(FieldOverview, html.UnescapeString(show.Overview), nil, false)

	genres := make([]string, 0, len(show.Genres))
	for _, g := range show.Genres {
		genres = append(genres, g.Name)
	}
	add(FieldGenres, strings.Join(genres, ", "), genres, false)

	if poster := r.posterValue(show); poster != "" {
		add(FieldPoster, poster, nil, true)
	}

	if show.ShowType == catalog.MediaTypeMovie && show.Runtime > 0 {
		add(FieldRuntime, strconv.Itoa(show.Runtime)+" min", nil, false)
	}
	if show.Rating > 0 {
		add(FieldRating, utils.ToString(show.Rating), show.Rating, false)
	}
	if show.ShowType == catalog.MediaTypeSeries {
		if show.SeasonCount > 0 {
			add(FieldSeasons, strconv.Itoa(show.SeasonCount), show.SeasonCount, false)
		}
		if show.EpisodeCount > 0 {
			add(FieldEpisodes, strconv.Itoa(show.EpisodeCount), show.EpisodeCount, false)
		}
	}

	offers := show.StreamingOptions[r.country]
	for _, sel := range r.cfg.Services {
		add(sel.Name, describeOffer(offers, sel.ID), nil, false)
	}

	watched := false
	for _, a := range availability {
		value := notAvailable
		if a.Available {
			value = "Available"
		}
		add(a.InstanceName, value, nil, false)
		watched = watched || a.Watched
	}
	if watched {
		add(FieldWatched, "true", true, false)
	}

	add(FieldTmdbID, strconv.Itoa(show.NumericTmdbID()), show.NumericTmdbID(), false)

	return changes
}

// posterValue renders the Poster field for the configured mode.
func (r *Reconciler) posterValue(show *catalog.Show) string {
	switch r.cfg.PosterMode {
	case PosterModeLocal:
		return "![[" + r.assetDir + "/" + strconv.Itoa(show.NumericTmdbID()) + ".jpg]]"
	case PosterModeNone:
		return ""
	default:
		return show.ImageSet.VerticalPoster.W480
	}
}

// normalizeValue renders a frontmatter value the way proposed values
// are rendered, so comparisons are stable across types.
func normalizeValue(v any) string {
	if v == nil {
		return ""
	}
	switch v.(type) {
	case []any, []string:
		return strings.Join(utils.ToStringSlice(v), ", ")
	default:
		return utils.ToString(v)
	}
}
