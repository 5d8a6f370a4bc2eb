package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "01234567890123456789012345678901234567890123456789" // 50 chars

// newTestService points a Service at a fake catalog API and returns a
// request counter so cache behavior can be asserted.
func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := Config{
		ApiKey:            testKey,
		Country:           "us",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
	}
	return NewService(cfg, nil, zap.NewNop()), &calls
}

func TestGetShowByID_CachesWithinLifetime(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/movie/603", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("X-RapidAPI-Key"))
		_, _ = w.Write([]byte(`{"result":{"showType":"movie","tmdbId":"movie/603","title":"The Matrix","releaseYear":1999}}`))
	})

	id := Identity{TmdbID: 603, Type: MediaTypeMovie}

	first, err := svc.GetShowByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", first.Title)
	assert.Equal(t, 603, first.NumericTmdbID())

	second, err := svc.GetShowByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load(), "second lookup must be served from cache")
}

func TestGetShowByID_InvalidKeySkipsNetwork(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	svc.cfg.ApiKey = "too-short"

	_, err := svc.GetShowByID(context.Background(), Identity{TmdbID: 603, Type: MediaTypeMovie})

	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Equal(t, int64(0), calls.Load(), "no network call may be attempted")
}

func TestGetShowByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := svc.GetShowByID(context.Background(), Identity{TmdbID: 1, Type: MediaTypeMovie})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetShowByID_QuotaExceededCarriesApiMessage(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"monthly quota exhausted"}`))
	})

	_, err := svc.GetShowByID(context.Background(), Identity{TmdbID: 1, Type: MediaTypeMovie})
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "monthly quota exhausted")
}

func TestGetShowByID_UpstreamServerError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.GetShowByID(context.Background(), Identity{TmdbID: 1, Type: MediaTypeMovie})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSearchByTitle_CachesByNormalizedTitle(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/search/title", r.URL.Path)
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte(`{"result":[{"showType":"movie","tmdbId":"movie/603","title":"The Matrix"}]}`))
	})

	first, err := svc.SearchByTitleStrict(context.Background(), "The  Matrix")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Same title modulo whitespace and case hits the cache.
	second, err := svc.SearchByTitleStrict(context.Background(), "the matrix")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestSearchByTitle_SwallowsClassifiedFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	results := svc.SearchByTitle(context.Background(), "anything")
	assert.Empty(t, results)
}

func TestSearchByTitleStrict_PropagatesFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.SearchByTitleStrict(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestCountries_FetchesAndDecodes(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/countries", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":{"us":{"countryCode":"us","name":"United States","services":[{"id":"netflix","name":"Netflix"}]}}}`))
	})

	countries, err := svc.Countries(context.Background())
	require.NoError(t, err)
	require.Contains(t, countries, "us")
	assert.Equal(t, "Netflix", countries["us"].Services[0].Name)

	// Without a persisted store every call refetches.
	_, err = svc.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestClearCache(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"showType":"movie","tmdbId":"movie/603","title":"The Matrix"}}`))
	})

	id := Identity{TmdbID: 603, Type: MediaTypeMovie}
	_, err := svc.GetShowByID(context.Background(), id)
	require.NoError(t, err)

	svc.ClearCache()

	_, err = svc.GetShowByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "the matrix", normalizeTitle("  The   Matrix "))
	assert.Equal(t, normalizeTitle("BREAKING BAD"), normalizeTitle("breaking bad"))
}

func TestIdentity_APIPath(t *testing.T) {
	assert.Equal(t, "movie/603", Identity{TmdbID: 603, Type: MediaTypeMovie}.APIPath())
	assert.Equal(t, "tv/1396", Identity{TmdbID: 1396, Type: MediaTypeSeries}.APIPath())
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in   string
		want MediaType
		ok   bool
	}{
		{"movie", MediaTypeMovie, true},
		{"Movie", MediaTypeMovie, true},
		{"series", MediaTypeSeries, true},
		{"tv", MediaTypeSeries, true},
		{"podcast", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMediaType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestShow_Year(t *testing.T) {
	movie := &Show{ReleaseYear: 1999}
	series := &Show{FirstAirYear: 2008}
	assert.Equal(t, 1999, movie.Year())
	assert.Equal(t, 2008, series.Year())
}

func TestShow_NumericTmdbID_PlainNumber(t *testing.T) {
	s := &Show{TmdbID: "603"}
	assert.Equal(t, 603, s.NumericTmdbID())
}

func TestClassifyStatus_Taxonomy(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrQuotaExceeded},
		{http.StatusUnauthorized, ErrInvalidCredential},
		{http.StatusForbidden, ErrInvalidCredential},
		{http.StatusInternalServerError, ErrUpstream},
		{http.StatusServiceUnavailable, ErrUpstream},
		{http.StatusTeapot, ErrTransport},
	}

	for _, tt := range tests {
		err := classifyStatus(tt.status, nil)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}

func TestApiMessage(t *testing.T) {
	assert.Equal(t, "boom", apiMessage([]byte(`{"message":"boom"}`)))
	assert.Equal(t, "", apiMessage([]byte("not json")))
	assert.Equal(t, "", apiMessage(nil))
}

func TestGetShowByID_TransportErrorOnBadBody(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{truncated"))
	})

	_, err := svc.GetShowByID(context.Background(), Identity{TmdbID: 1, Type: MediaTypeMovie})
	require.ErrorIs(t, err, ErrTransport)
	assert.True(t, strings.Contains(err.Error(), "decoding"))
}
