package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobState is the batch job lifecycle state.
type JobState string

const (
	JobIdle      JobState = "idle"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobCancelled JobState = "cancelled"
)

// Progress is the surface batch runs report to. The CLI prints it; the
// HTTP job resource snapshots it; tests record it.
type Progress interface {
	UpdateProgress(label string)
	RecordSuccess()
	RecordFailure(label, message string)
	Complete()
	IsCancelled() bool
}

// NopProgress is a Progress that does nothing and never cancels.
type NopProgress struct{}

func (NopProgress) UpdateProgress(string)        {}
func (NopProgress) RecordSuccess()               {}
func (NopProgress) RecordFailure(string, string) {}
func (NopProgress) Complete()                    {}
func (NopProgress) IsCancelled() bool            { return false }

// ItemError records one failed item.
type ItemError struct {
	Item    string `json:"item"`
	Message string `json:"message"`
}

// ErrorGroup aggregates failures that share a message, so a repeated
// cause is reported once with an affected-item count.
type ErrorGroup struct {
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Items   []string `json:"items"`
}

// Job is one batch synchronization run. Counters are guarded so the
// HTTP job resource can snapshot a running job.
type Job struct {
	ID string

	mu           sync.Mutex
	state        JobState
	total        int
	currentIndex int
	successCount int
	failureCount int
	errors       []ItemError
	startedAt    time.Time
	finishedAt   time.Time

	cancelled atomic.Bool
}

// NewJob creates an idle job over total items.
func NewJob(total int) *Job {
	return &Job{ID: uuid.NewString(), state: JobIdle, total: total}
}

// Cancel requests cooperative cancellation. The current item finishes;
// no further item starts.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
}

// IsCancelled reports whether cancellation was requested.
func (j *Job) IsCancelled() bool {
	return j.cancelled.Load()
}

// Summary is a point-in-time copy of a job's state.
type Summary struct {
	ID           string       `json:"id"`
	State        JobState     `json:"state"`
	Total        int          `json:"total"`
	CurrentIndex int          `json:"current_index"`
	SuccessCount int          `json:"success_count"`
	FailureCount int          `json:"failure_count"`
	Errors       []ItemError  `json:"errors,omitempty"`
	ErrorGroups  []ErrorGroup `json:"error_groups,omitempty"`
	StartedAt    time.Time    `json:"started_at,omitempty"`
	FinishedAt   time.Time    `json:"finished_at,omitempty"`
}

// Snapshot copies the job state for reporting.
func (j *Job) Snapshot() Summary {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Summary{
		ID:           j.ID,
		State:        j.state,
		Total:        j.total,
		CurrentIndex: j.currentIndex,
		SuccessCount: j.successCount,
		FailureCount: j.failureCount,
		Errors:       append([]ItemError(nil), j.errors...),
		ErrorGroups:  groupErrors(j.errors),
		StartedAt:    j.startedAt,
		FinishedAt:   j.finishedAt,
	}
}

// groupErrors buckets failures by message, preserving first-seen order.
func groupErrors(errs []ItemError) []ErrorGroup {
	var groups []ErrorGroup
	index := map[string]int{}
	for _, e := range errs {
		i, ok := index[e.Message]
		if !ok {
			i = len(groups)
			index[e.Message] = i
			groups = append(groups, ErrorGroup{Message: e.Message})
		}
		groups[i].Count++
		groups[i].Items = append(groups[i].Items, e.Item)
	}
	return groups
}

// Runner drives a batch of items through a per-item sync, strictly in
// order, continuing past failures, checking cancellation once per item
// boundary. An in-flight item is never interrupted.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a batch runner.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run processes items in order through perItem and returns the job in a
// terminal state. A zero-item batch completes immediately.
func (r *Runner) Run(ctx context.Context, job *Job, items []string, progress Progress, perItem func(ctx context.Context, item string) error) *Job {
	job.mu.Lock()
	job.state = JobRunning
	job.total = len(items)
	job.startedAt = time.Now()
	job.mu.Unlock()

	terminal := JobCompleted
	for i, item := range items {
		if job.IsCancelled() || progress.IsCancelled() || ctx.Err() != nil {
			terminal = JobCancelled
			break
		}

		job.mu.Lock()
		job.currentIndex = i
		job.mu.Unlock()
		progress.UpdateProgress(item)

		if err := perItem(ctx, item); err != nil {
			r.logger.Warn("Item sync failed", zap.String("item", item), zap.Error(err))
			progress.RecordFailure(item, err.Error())
			job.mu.Lock()
			job.failureCount++
			job.errors = append(job.errors, ItemError{Item: item, Message: err.Error()})
			job.mu.Unlock()
			continue
		}

		progress.RecordSuccess()
		job.mu.Lock()
		job.successCount++
		job.mu.Unlock()
	}

	job.mu.Lock()
	job.state = terminal
	job.finishedAt = time.Now()
	job.mu.Unlock()
	progress.Complete()

	snap := job.Snapshot()
	r.logger.Info("Batch finished",
		zap.String("job_id", job.ID),
		zap.String("state", string(terminal)),
		zap.Int("success", snap.SuccessCount),
		zap.Int("failed", snap.FailureCount))
	return job
}

// Registry tracks jobs for the HTTP job resource.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{jobs: map[string]*Job{}}
}

// Add registers a job.
func (r *Registry) Add(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Get looks a job up by id.
func (r *Registry) Get(id string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}
