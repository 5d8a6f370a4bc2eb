package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stream-sync/core/cache"
	"stream-sync/core/ratelimit"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service is the rate-limited, caching client for the streaming catalog
// API. Show and search caches are session-lived; the country/provider
// catalog is persisted with a 7-day TTL.
type Service struct {
	cfg     Config
	logger  *zap.Logger
	client  *http.Client
	limiter *ratelimit.Limiter

	shows    *cache.Store[*Show]
	searches *cache.Store[[]Show]
	store    *CatalogStore
	sf       singleflight.Group
}

// NewService creates a catalog service. store may be nil, in which case
// the country catalog is refetched on every call.
func NewService(cfg Config, store *CatalogStore, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		logger:  logger,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: ratelimit.New(cfg.RequestsPerSecond, cfg.QuotaWarnThreshold, logger),
		shows:   cache.New[*Show](0),
		// Searches cache by normalized title for the process lifetime.
		searches: cache.New[[]Show](0),
		store:    store,
	}
}

// ValidateKey checks the API key shape without a network call.
func (s *Service) ValidateKey() error {
	if len(s.cfg.ApiKey) != apiKeyLength {
		return ErrInvalidCredential
	}
	return nil
}

// ClearCache drops the in-memory show and search caches.
func (s *Service) ClearCache() {
	s.shows.Clear()
	s.searches.Clear()
}

// GetShowByID fetches canonical metadata for a known identity.
// Repeated calls for the same identity within the cache lifetime never
// re-issue the network call.
func (s *Service) GetShowByID(ctx context.Context, id Identity) (*Show, error) {
	if err := s.ValidateKey(); err != nil {
		return nil, err
	}

	cacheKey := "show:" + id.String()
	if show, ok := s.shows.Get(cacheKey); ok {
		return show, nil
	}

	body, err := s.get(ctx, "/shows/"+id.APIPath(), url.Values{
		"series_granularity": {"show"},
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Result *Show `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding show: %v", ErrTransport, err)
	}
	if envelope.Result == nil {
		return nil, ErrNotFound
	}

	s.shows.Set(cacheKey, envelope.Result)
	return envelope.Result, nil
}

// SearchByTitle searches shows by title in the configured country.
// Classified failures are surfaced through the log and swallowed into
// an empty result; callers that need to distinguish failures use
// SearchByTitleStrict.
func (s *Service) SearchByTitle(ctx context.Context, title string) []Show {
	results, err := s.SearchByTitleStrict(ctx, title)
	if err != nil {
		s.logger.Error("Title search failed", zap.String("title", title), zap.Error(err))
		return nil
	}
	return results
}

// SearchByTitleStrict is SearchByTitle with error propagation, for
// flows that want to keep a previous match instead of showing a generic
// failure.
func (s *Service) SearchByTitleStrict(ctx context.Context, title string) ([]Show, error) {
	if err := s.ValidateKey(); err != nil {
		return nil, err
	}

	cacheKey := "search:" + normalizeTitle(title)
	if results, ok := s.searches.Get(cacheKey); ok {
		return results, nil
	}

	body, err := s.get(ctx, "/shows/search/title", url.Values{
		"country": {s.cfg.Country},
		"title":   {title},
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Result []Show `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding search results: %v", ErrTransport, err)
	}

	s.searches.Set(cacheKey, envelope.Result)
	return envelope.Result, nil
}

// Countries returns the country/provider catalog, served from the
// persisted cache while it is fresher than the configured TTL and
// refreshed synchronously otherwise.
func (s *Service) Countries(ctx context.Context) (map[string]Country, error) {
	if s.store != nil {
		if countries, ok := s.store.GetCountries(); ok {
			return countries, nil
		}
	}

	if err := s.ValidateKey(); err != nil {
		return nil, err
	}

	// Concurrent refreshes of a stale catalog collapse into one fetch.
	result, err, _ := s.sf.Do("countries", func() (any, error) {
		body, err := s.get(ctx, "/countries", nil)
		if err != nil {
			return nil, err
		}

		var envelope struct {
			Result map[string]Country `json:"result"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("%w: decoding countries: %v", ErrTransport, err)
		}

		if s.store != nil {
			if err := s.store.PutCountries(envelope.Result); err != nil {
				s.logger.Warn("Failed to persist country catalog", zap.Error(err))
			}
		}
		return envelope.Result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(map[string]Country), nil
}

// get awaits rate limiter admission, issues the request, records quota
// headers, and classifies any failure.
func (s *Service) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	endpoint := strings.TrimSuffix(s.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("X-RapidAPI-Key", s.cfg.ApiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if quota, ok := ratelimit.QuotaFromHeader(resp.Header); ok {
		s.limiter.Observe(quota)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	return body, nil
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
