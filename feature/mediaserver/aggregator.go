package mediaserver

import (
	"context"
	"sync"
	"time"

	"stream-sync/feature/catalog"

	"go.uber.org/zap"
)

// Service fans availability checks out to every configured instance.
type Service struct {
	cfg    Config
	client *Client
	logger *zap.Logger
}

// NewService creates the availability aggregation service.
func NewService(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: NewClient(time.Duration(cfg.CacheTTLSeconds)*time.Second, logger),
		logger: logger,
	}
}

// Instances returns the configured instances.
func (s *Service) Instances() []Instance {
	return s.cfg.Instances
}

// ClearCache drops cached library listings on the underlying client.
func (s *Service) ClearCache() {
	s.client.ClearCache()
}

// CheckAvailability checks every configured instance concurrently and
// returns one result per instance, in configuration order. An instance
// that fails, or panics, reports unavailable; it never disturbs the
// results of its siblings.
func (s *Service) CheckAvailability(ctx context.Context, id catalog.Identity) []Availability {
	results := make([]Availability, len(s.cfg.Instances))

	var wg sync.WaitGroup
	for i, inst := range s.cfg.Instances {
		wg.Add(1)
		go func(i int, inst Instance) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Availability check panicked",
						zap.String("instance", inst.Name), zap.Any("panic", r))
					results[i] = Availability{InstanceName: inst.Name}
				}
			}()
			results[i] = s.client.CheckInstance(ctx, inst, id)
		}(i, inst)
	}
	wg.Wait()

	return results
}
