package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stream-sync/feature/catalog"
	"stream-sync/feature/mediaserver"
	"stream-sync/feature/posters"
	"stream-sync/feature/vault"

	"go.uber.org/zap"
)

// Identity resolution failures. Both are per-item: in a batch they are
// recorded and the batch continues.
var (
	ErrNoIdentity     = errors.New("no identity found")
	ErrAmbiguousTitle = errors.New("ambiguous title")
)

// Result is the outcome of syncing one document.
type Result struct {
	// Path is the document path after the sync, which differs from the
	// input when the document was renamed.
	Path string `json:"path"`
	// Changes are all computed changes, applied or not.
	Changes []Change `json:"changes"`
	// Applied is the number of enabled changes written.
	Applied int `json:"applied"`
}

// Service orchestrates per-document synchronization: identity
// resolution, metadata lookup, availability aggregation, reconciliation
// and apply.
type Service struct {
	cfg        Config
	catalog    *catalog.Service
	mediaSrv   *mediaserver.Service
	vault      *vault.Vault
	posters    *posters.Service
	reconciler *Reconciler
	runner     *Runner
	jobs       *Registry
	joblog     *JobLog
	logger     *zap.Logger
}

// NewService wires the sync orchestrator. posters and joblog may be
// nil; local poster mirroring and job persistence are skipped then.
func NewService(cfg Config, country string, catalogSvc *catalog.Service, mediaSrv *mediaserver.Service, v *vault.Vault, posterSvc *posters.Service, joblog *JobLog, logger *zap.Logger) *Service {
	instanceNames := make([]string, 0, len(mediaSrv.Instances()))
	for _, inst := range mediaSrv.Instances() {
		instanceNames = append(instanceNames, inst.Name)
	}

	return &Service{
		cfg:        cfg,
		catalog:    catalogSvc,
		mediaSrv:   mediaSrv,
		vault:      v,
		posters:    posterSvc,
		reconciler: NewReconciler(cfg, country, v.AssetDir(), instanceNames),
		runner:     NewRunner(logger),
		jobs:       NewRegistry(),
		joblog:     joblog,
		logger:     logger,
	}
}

// Reconciler exposes the service's reconciler.
func (s *Service) Reconciler() *Reconciler {
	return s.reconciler
}

// Jobs exposes the batch job registry.
func (s *Service) Jobs() *Registry {
	return s.jobs
}

// SyncDocument synchronizes one document: resolve its identity, fetch
// canonical metadata and availability, compute changes, and apply the
// enabled ones. Rename refusal and poster download failures are
// surfaced in the log but do not fail the sync.
func (s *Service) SyncDocument(ctx context.Context, path string) (*Result, error) {
	fields, err := s.vault.ReadFields(path)
	if err != nil {
		return nil, err
	}

	show, err := s.resolveShow(ctx, path, fields)
	if err != nil {
		return nil, err
	}

	availability := s.mediaSrv.CheckAvailability(ctx, show.Identity())
	changes := s.reconciler.ComputeChanges(vault.Basename(path), fields, show, availability)

	result := &Result{Path: path, Changes: changes}

	apply := make([]vault.Field, 0, len(changes)+1)
	var rename string
	for _, c := range changes {
		if !c.Enabled {
			continue
		}
		if c.Field == FieldFileName {
			rename = c.NewValue
			result.Applied++
			continue
		}
		apply = append(apply, vault.Field{Key: c.Field, Value: c.Value()})
		result.Applied++
	}
	// Last Synced is stamped on every sync, not diffed.
	apply = append(apply, vault.Field{Key: FieldLastSynced, Value: time.Now().Format(time.RFC3339)})

	if err := s.vault.ApplyFields(path, apply); err != nil {
		return nil, err
	}

	if rename != "" {
		newPath, err := s.vault.Rename(path, rename+".md")
		switch {
		case errors.Is(err, vault.ErrTargetExists):
			s.logger.Warn("Rename refused, target exists",
				zap.String("document", vault.Basename(path)), zap.String("target", rename))
		case err != nil:
			return nil, err
		default:
			result.Path = newPath
		}
	}

	s.downloadPoster(ctx, show, changes)

	return result, nil
}

// resolveShow resolves a document's canonical metadata. A frontmatter
// identity is authoritative; otherwise the basename is searched and
// only an unambiguous single hit syncs.
func (s *Service) resolveShow(ctx context.Context, path string, fields map[string]any) (*catalog.Show, error) {
	tmdbID := vault.FieldInt(fields, FieldTmdbID)
	mediaType, typeOK := catalog.ParseMediaType(vault.FieldString(fields, FieldType))

	if tmdbID > 0 && typeOK {
		show, err := s.catalog.GetShowByID(ctx, catalog.Identity{TmdbID: tmdbID, Type: mediaType})
		if err == nil {
			return show, nil
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
		// A stale identity falls back to title search.
		s.logger.Warn("Known identity not found, falling back to title search",
			zap.Int("tmdb_id", tmdbID), zap.String("document", vault.Basename(path)))
	}

	hits, err := s.catalog.SearchByTitleStrict(ctx, vault.Basename(path))
	if err != nil {
		return nil, err
	}
	switch len(hits) {
	case 0:
		return nil, ErrNoIdentity
	case 1:
		return &hits[0], nil
	default:
		return nil, fmt.Errorf("%w: %d candidates", ErrAmbiguousTitle, len(hits))
	}
}

// downloadPoster mirrors the poster image for local poster mode. Any
// failure is swallowed; poster absence must not block metadata sync.
func (s *Service) downloadPoster(ctx context.Context, show *catalog.Show, changes []Change) {
	if s.cfg.PosterMode != PosterModeLocal || s.posters == nil {
		return
	}

	enabled := false
	for _, c := range changes {
		if c.Field == FieldPoster && c.Enabled {
			enabled = true
			break
		}
	}
	if !enabled {
		return
	}

	url := show.ImageSet.VerticalPoster.W480
	if url == "" {
		return
	}
	object := strconv.Itoa(show.NumericTmdbID()) + ".jpg"

	data, err := s.posters.Mirror(ctx, url, object)
	if err != nil {
		s.logger.Warn("Poster download failed", zap.String("object", object), zap.Error(err))
		return
	}

	dir := filepath.Join(s.vault.Root(), s.vault.AssetDir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("Poster directory creation failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(filepath.Join(dir, object), data, 0o644); err != nil {
		s.logger.Warn("Poster write failed", zap.String("object", object), zap.Error(err))
	}
}

// SyncAll runs a batch over every vault document, in order, reporting
// to progress. The returned job is terminal.
func (s *Service) SyncAll(ctx context.Context, progress Progress) (*Job, error) {
	docs, err := s.vault.Documents()
	if err != nil {
		return nil, err
	}
	return s.RunBatch(ctx, docs, progress), nil
}

// RunBatch runs a batch over the given documents and records the
// outcome in the job log.
func (s *Service) RunBatch(ctx context.Context, docs []string, progress Progress) *Job {
	job := NewJob(len(docs))
	s.jobs.Add(job)

	s.runner.Run(ctx, job, docs, progress, func(ctx context.Context, path string) error {
		_, err := s.SyncDocument(ctx, path)
		return err
	})

	if s.joblog != nil {
		if err := s.joblog.Record(job.Snapshot()); err != nil {
			s.logger.Warn("Failed to persist job summary", zap.Error(err))
		}
	}
	return job
}

// StartBatch launches RunBatch in the background for the HTTP surface
// and returns the job immediately.
func (s *Service) StartBatch(docs []string) *Job {
	job := NewJob(len(docs))
	s.jobs.Add(job)

	go func() {
		s.runner.Run(context.Background(), job, docs, NopProgress{}, func(ctx context.Context, path string) error {
			_, err := s.SyncDocument(ctx, path)
			return err
		})
		if s.joblog != nil {
			if err := s.joblog.Record(job.Snapshot()); err != nil {
				s.logger.Warn("Failed to persist job summary", zap.Error(err))
			}
		}
	}()

	return job
}

// Documents lists the vault's documents for batch endpoints.
func (s *Service) Documents() ([]string, error) {
	return s.vault.Documents()
}
