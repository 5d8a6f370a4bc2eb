package sync

import (
	"testing"
	"time"

	"stream-sync/feature/catalog"
	"stream-sync/feature/mediaserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Services: []ServiceSelection{
			{ID: "netflix", Name: "Netflix"},
		},
		PosterMode:             PosterModeRemote,
		MovieFilenameTemplate:  "${title} (${year})",
		SeriesFilenameTemplate: "${title} (${firstAirYear})",
	}
}

func matrixShow() *catalog.Show {
	return &catalog.Show{
		ShowType:    catalog.MediaTypeMovie,
		TmdbID:      "movie/603",
		Title:       "The Matrix",
		Overview:    "Neo discovers the truth &amp; fights back.",
		ReleaseYear: 1999,
		Genres:      []catalog.Genre{{ID: "action", Name: "Action"}, {ID: "scifi", Name: "Science Fiction"}},
		Directors:   []string{"Lana Wachowski", "Lilly Wachowski"},
		Cast:        []string{"Keanu Reeves", "Laurence Fishburne"},
		Rating:      8.7,
		Runtime:     136,
		ImageSet: catalog.ImageSet{
			VerticalPoster: catalog.PosterSet{W480: "https://cdn.example/poster-480.jpg"},
		},
	}
}

func changeFor(t *testing.T, changes []Change, field string) Change {
	t.Helper()
	for _, c := range changes {
		if c.Field == field {
			return c
		}
	}
	t.Fatalf("no change for field %q", field)
	return Change{}
}

func hasChange(changes []Change, field string) bool {
	for _, c := range changes {
		if c.Field == field {
			return true
		}
	}
	return false
}

func TestComputeChanges_NewlyPopulatedUsesEmptySentinel(t *testing.T) {
	r := NewReconciler(testConfig(), "us", "assets/posters", nil)

	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), nil)

	year := changeFor(t, changes, FieldYear)
	assert.Equal(t, EmptyValue, year.OldValue)
	assert.Equal(t, "1999", year.NewValue)
}

func TestComputeChanges_EqualValuesEmitNothing(t *testing.T) {
	r := NewReconciler(testConfig(), "us", "assets/posters", nil)
	show := matrixShow()

	current := map[string]any{
		FieldType:      "movie",
		FieldYear:      1999,
		FieldDirectors: []any{"Lana Wachowski", "Lilly Wachowski"},
		FieldCast:      []any{"Keanu Reeves", "Laurence Fishburne"},
		FieldOverview:  "Neo discovers the truth & fights back.",
		FieldGenres:    []any{"Action", "Science Fiction"},
		FieldPoster:    "https://cdn.example/poster-480.jpg",
		FieldRuntime:   "136 min",
		FieldRating:    8.7,
		FieldTmdbID:    603,
		"Netflix":      "Not available",
	}

	changes := r.ComputeChanges("The Matrix (1999)", current, show, nil)
	assert.Empty(t, changes, "identical normalized values must not produce changes")
}

func TestComputeChanges_TypeAndIdentityAlwaysEnabled(t *testing.T) {
	// An allow-list that names nothing still cannot disable the two
	// identity-class fields.
	cfg := testConfig()
	cfg.EnabledFields = []string{FieldYear}
	r := NewReconciler(cfg, "us", "assets/posters", nil)

	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), nil)

	assert.True(t, changeFor(t, changes, FieldType).Enabled)
	assert.True(t, changeFor(t, changes, FieldTmdbID).Enabled)
	assert.True(t, changeFor(t, changes, FieldYear).Enabled)
	assert.False(t, changeFor(t, changes, FieldCast).Enabled)
	assert.False(t, changeFor(t, changes, FieldFileName).Enabled)
}

func TestComputeChanges_ProviderNamesOverrideAllowList(t *testing.T) {
	cfg := testConfig()
	cfg.EnabledFields = []string{FieldYear}
	r := NewReconciler(cfg, "us", "assets/posters", []string{"Living Room"})

	availability := []mediaserver.Availability{
		{InstanceName: "Living Room", Available: true},
	}
	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), availability)

	assert.True(t, changeFor(t, changes, "Netflix").Enabled,
		"streaming service fields are enabled by recognition")
	assert.True(t, changeFor(t, changes, "Living Room").Enabled,
		"media server instance fields are enabled by recognition")
}

func TestComputeChanges_OverviewDecodesEntities(t *testing.T) {
	r := NewReconciler(testConfig(), "us", "assets/posters", nil)

	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), nil)
	overview := changeFor(t, changes, FieldOverview)
	assert.Equal(t, "Neo discovers the truth & fights back.", overview.NewValue)
}

func TestComputeChanges_PosterCarriesAssetFlag(t *testing.T) {
	r := NewReconciler(testConfig(), "us", "assets/posters", nil)

	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), nil)
	poster := changeFor(t, changes, FieldPoster)
	assert.True(t, poster.IsAsset)
	assert.Equal(t, "https://cdn.example/poster-480.jpg", poster.NewValue)

	for _, c := range changes {
		if c.Field != FieldPoster {
			assert.False(t, c.IsAsset, "only Poster is an asset field, got %s", c.Field)
		}
	}
}

func TestComputeChanges_PosterModes(t *testing.T) {
	cfg := testConfig()
	cfg.PosterMode = PosterModeLocal
	r := NewReconciler(cfg, "us", "assets/posters", nil)
	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), nil)
	assert.Equal(t, "![[assets/posters/603.jpg]]", changeFor(t, changes, FieldPoster).NewValue)

	cfg.PosterMode = PosterModeNone
	r = NewReconciler(cfg, "us", "assets/posters", nil)
	changes = r.ComputeChanges("untitled", map[string]any{}, matrixShow(), nil)
	assert.False(t, hasChange(changes, FieldPoster))
}

func TestComputeChanges_SeriesFields(t *testing.T) {
	show := &catalog.Show{
		ShowType:     catalog.MediaTypeSeries,
		TmdbID:       "tv/1396",
		Title:        "Breaking Bad",
		FirstAirYear: 2008,
		LastAirYear:  2013,
		Creators:     []string{"Vince Gilligan"},
		SeasonCount:  5,
		EpisodeCount: 62,
		Runtime:      47,
	}

	r := NewReconciler(testConfig(), "us", "assets/posters", nil)
	changes := r.ComputeChanges("untitled", map[string]any{}, show, nil)

	assert.Equal(t, "5", changeFor(t, changes, FieldSeasons).NewValue)
	assert.Equal(t, "62", changeFor(t, changes, FieldEpisodes).NewValue)
	assert.Equal(t, "Vince Gilligan", changeFor(t, changes, FieldDirectors).NewValue)
	assert.Equal(t, "Breaking Bad (2008)", changeFor(t, changes, FieldFileName).NewValue)
	assert.False(t, hasChange(changes, FieldRuntime), "runtime is a movie field")
}

func TestComputeChanges_AvailabilityAndWatched(t *testing.T) {
	r := NewReconciler(testConfig(), "us", "assets/posters", []string{"A", "B"})

	availability := []mediaserver.Availability{
		{InstanceName: "A", Available: true, Watched: true},
		{InstanceName: "B", Available: false},
	}
	changes := r.ComputeChanges("untitled", map[string]any{}, matrixShow(), availability)

	assert.Equal(t, "Available", changeFor(t, changes, "A").NewValue)
	assert.Equal(t, "Not available", changeFor(t, changes, "B").NewValue)
	watched := changeFor(t, changes, FieldWatched)
	assert.Equal(t, "true", watched.NewValue)
	assert.Equal(t, true, watched.Value())
}

func TestDescribeOffer(t *testing.T) {
	expiry := time.Date(2026, time.September, 30, 12, 0, 0, 0, time.UTC).Unix()

	tests := []struct {
		name    string
		options []catalog.StreamingOption
		want    string
	}{
		{
			name: "expiring subscription",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "subscription", ExpiresOn: expiry},
			},
			want: "Available until Sep 30, 2026",
		},
		{
			name: "plain subscription",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "subscription"},
			},
			want: "Available",
		},
		{
			name: "addon",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "addon", Addon: &catalog.Addon{ID: "hbo", Name: "HBO Max"}},
			},
			want: "Available with HBO Max",
		},
		{
			name: "expiring subscription beats addon",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "addon", Addon: &catalog.Addon{ID: "hbo", Name: "HBO Max"}},
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "subscription", ExpiresOn: expiry},
			},
			want: "Available until Sep 30, 2026",
		},
		{
			name: "addon bundle pseudo offer is filtered",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "addon", Addon: &catalog.Addon{ID: "tvs.sbd.123", Name: "Bundle"}},
			},
			want: "Not available",
		},
		{
			name: "rent and buy offers do not count",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "rent"},
				{Service: catalog.ServiceRef{ID: "netflix"}, Type: "buy"},
			},
			want: "Not available",
		},
		{
			name:    "no offers",
			options: nil,
			want:    "Not available",
		},
		{
			name: "other service only",
			options: []catalog.StreamingOption{
				{Service: catalog.ServiceRef{ID: "prime"}, Type: "subscription"},
			},
			want: "Not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeOffer(tt.options, "netflix"))
		})
	}
}

func TestDescribeOffer_UnrecognizedShapeIsVisible(t *testing.T) {
	// An addon offer without addon details matches no recognized shape;
	// the diagnostic must be visible, not silently dropped.
	options := []catalog.StreamingOption{
		{Service: catalog.ServiceRef{ID: "netflix"}, Type: "addon"},
	}
	got := describeOffer(options, "netflix")
	assert.Contains(t, got, "Unrecognized offer")
}

func TestRenderFilename(t *testing.T) {
	show := matrixShow()
	assert.Equal(t, "The Matrix (1999)", renderFilename("${title} (${year})", show))
	assert.Equal(t, "The Matrix [603]", renderFilename("${title} [${tmdb_id}]", show))

	show.Title = `What? A/B: "Test" <Cut>`
	got := renderFilename("${title}", show)
	assert.Equal(t, "What- A-B- -Test- -Cut-", got)
}

func TestChangeValue_DefaultsToNewValue(t *testing.T) {
	c := Change{Field: FieldType, NewValue: "movie"}
	assert.Equal(t, "movie", c.Value())

	c = Change{Field: FieldYear, NewValue: "1999", value: 1999}
	assert.Equal(t, 1999, c.Value())
}

func TestNewPolicy_EmptyAllowListUsesDefaults(t *testing.T) {
	p := NewPolicy(nil, nil)
	assert.True(t, p.IsEnabled(FieldYear))
	assert.True(t, p.IsEnabled(FieldPoster))
	assert.False(t, p.IsEnabled(FieldWatched))
	assert.True(t, p.IsEnabled(FieldType))
	assert.True(t, p.IsEnabled(FieldTmdbID))
}

func TestComputeChanges_FileNameComparesAgainstDocName(t *testing.T) {
	r := NewReconciler(testConfig(), "us", "assets/posters", nil)

	changes := r.ComputeChanges("The Matrix (1999)", map[string]any{}, matrixShow(), nil)
	require.False(t, hasChange(changes, FieldFileName),
		"a document already named by the template must not be renamed")
}
