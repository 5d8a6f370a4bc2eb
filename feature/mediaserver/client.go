package mediaserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stream-sync/core/cache"
	"stream-sync/feature/catalog"

	"go.uber.org/zap"
)

// tokenHeader authenticates requests against a Jellyfin server.
const tokenHeader = "X-Emby-Token"

// Client talks to Jellyfin instances. Library listings are cached per
// instance and media type so that a bulk sync issues one listing
// request per instance instead of one per document.
type Client struct {
	http   *http.Client
	items  *cache.Store[[]Item]
	logger *zap.Logger
}

// NewClient creates a media server client with the given item-list TTL.
func NewClient(cacheTTL time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: 30 * time.Second},
		items:  cache.New[[]Item](cacheTTL),
		logger: logger,
	}
}

// ClearCache drops the cached library listings.
func (c *Client) ClearCache() {
	c.items.Clear()
}

// itemType maps a media type to the Jellyfin IncludeItemTypes value.
func itemType(mediaType catalog.MediaType) string {
	if mediaType == catalog.MediaTypeMovie {
		return "Movie"
	}
	return "Series"
}

// CheckInstance resolves one title in one instance's library: it lists
// the library (cached), matches on the TMDB provider id, and resolves
// watch state when a user is configured.
func (c *Client) CheckInstance(ctx context.Context, inst Instance, id catalog.Identity) Availability {
	result := Availability{InstanceName: inst.Name}

	baseURL := strings.TrimRight(inst.URL, "/")
	kind := itemType(id.Type)

	items, err := c.listItems(ctx, baseURL, inst.ApiKey, kind)
	if err != nil {
		// A degraded instance must not abort the whole check.
		c.logger.Debug("Media server listing failed",
			zap.String("instance", inst.Name), zap.Error(err))
		return result
	}

	wanted := strconv.Itoa(id.TmdbID)
	var match *Item
	for i := range items {
		if items[i].ProviderIDs["Tmdb"] == wanted {
			match = &items[i]
			break
		}
	}
	if match == nil {
		return result
	}

	result.Available = true
	result.ItemID = match.ID

	if inst.UserID != "" {
		if watched, err := c.userWatched(ctx, baseURL, inst.ApiKey, inst.UserID, match.ID); err == nil {
			result.Watched = watched
		} else {
			c.logger.Debug("Watch state lookup failed",
				zap.String("instance", inst.Name), zap.Error(err))
		}
	}

	return result
}

// listItems returns the instance's library for one item type, cached.
func (c *Client) listItems(ctx context.Context, baseURL, apiKey, kind string) ([]Item, error) {
	cacheKey := baseURL + ":" + kind
	if items, ok := c.items.Get(cacheKey); ok {
		return items, nil
	}

	url := fmt.Sprintf("%s/Items?Recursive=true&IncludeItemTypes=%s&Fields=ProviderIds", baseURL, kind)
	body, err := c.get(ctx, url, apiKey)
	if err != nil {
		return nil, err
	}

	var resp itemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	c.items.Set(cacheKey, resp.Items)
	return resp.Items, nil
}

// userWatched fetches the per-user item record and returns the played flag.
func (c *Client) userWatched(ctx context.Context, baseURL, apiKey, userID, itemID string) (bool, error) {
	url := fmt.Sprintf("%s/Users/%s/Items/%s", baseURL, userID, itemID)
	body, err := c.get(ctx, url, apiKey)
	if err != nil {
		return false, err
	}

	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return false, fmt.Errorf("decoding user item: %w", err)
	}
	return item.UserData != nil && item.UserData.Played, nil
}

func (c *Client) get(ctx context.Context, url, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(tokenHeader, apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
