package cmd

import (
	"context"
	"time"

	"stream-sync/core/config"
	"stream-sync/core/database"
	"stream-sync/core/loader"
	"stream-sync/core/storage"

	"stream-sync/feature/catalog"
	"stream-sync/feature/mediaserver"
	"stream-sync/feature/posters"
	"stream-sync/feature/sync"
	"stream-sync/feature/vault"

	"go.uber.org/zap"
)

// services is the wired feature graph shared by the server and the CLI
// sync commands.
type services struct {
	cfg     *config.Config
	catalog *catalog.Service
	media   *mediaserver.Service
	vault   *vault.Vault
	sync    *sync.Service
}

// buildServices connects the optional backends (database, object
// storage) and wires the feature services. Both backends degrade
// gracefully: without a database the catalog cache and job log are
// in-memory only; without object storage local posters are skipped.
func buildServices(cfg *config.Config, logg *zap.Logger) *services {
	var catalogStore *catalog.CatalogStore
	var joblog *sync.JobLog

	if db, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		ttl := time.Duration(cfg.Catalog.CatalogTTLDays) * 24 * time.Hour
		if catalogStore, err = catalog.NewCatalogStore(db, ttl); err != nil {
			logg.Warn("Catalog cache table unavailable", zap.Error(err))
		}
		if joblog, err = sync.NewJobLog(db); err != nil {
			logg.Warn("Job log table unavailable", zap.Error(err))
		}
	}

	var posterSvc *posters.Service
	if cfg.Sync.PosterMode == sync.PosterModeLocal {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Object storage unavailable, local posters disabled", zap.Error(err))
		} else {
			posterSvc = posters.NewService(client, cfg.Storage.Bucket, logg)
			if err := posterSvc.EnsureBucket(context.Background()); err != nil {
				logg.Warn("Poster bucket unavailable, local posters disabled", zap.Error(err))
				posterSvc = nil
			}
		}
	}

	catalogSvc := catalog.NewService(cfg.Catalog, catalogStore, logg)
	mediaSvc := mediaserver.NewService(cfg.MediaServer, logg)
	v := vault.New(cfg.Vault, logg)
	syncSvc := sync.NewService(cfg.Sync, cfg.Catalog.Country, catalogSvc, mediaSvc, v, posterSvc, joblog, logg)

	return &services{
		cfg:     cfg,
		catalog: catalogSvc,
		media:   mediaSvc,
		vault:   v,
		sync:    syncSvc,
	}
}

// featureManager registers the HTTP features.
func (s *services) featureManager(logg *zap.Logger) *loader.Manager {
	mgr := loader.NewManager()
	mgr.Register(catalog.NewFeature(s.catalog, logg))
	mgr.Register(mediaserver.NewFeature(s.media, logg))
	mgr.Register(sync.NewFeature(s.sync, logg))
	return mgr
}
