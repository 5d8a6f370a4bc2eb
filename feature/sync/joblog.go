package sync

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// JobRecord is the persisted summary of a finished batch job.
type JobRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	State        string `gorm:"size:16"`
	Total        int
	SuccessCount int
	FailureCount int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// TableName implements the gorm table name convention.
func (JobRecord) TableName() string {
	return "sync_jobs"
}

// JobLog persists batch job outcomes.
type JobLog struct {
	db *gorm.DB
}

// NewJobLog creates the job log and migrates its table.
func NewJobLog(db *gorm.DB) (*JobLog, error) {
	if err := db.AutoMigrate(&JobRecord{}); err != nil {
		return nil, fmt.Errorf("migrating sync job table: %w", err)
	}
	return &JobLog{db: db}, nil
}

// Record upserts a job's terminal summary.
func (l *JobLog) Record(s Summary) error {
	record := JobRecord{
		ID:           s.ID,
		State:        string(s.State),
		Total:        s.Total,
		SuccessCount: s.SuccessCount,
		FailureCount: s.FailureCount,
		StartedAt:    s.StartedAt,
		FinishedAt:   s.FinishedAt,
	}
	if err := l.db.Save(&record).Error; err != nil {
		return fmt.Errorf("recording sync job: %w", err)
	}
	return nil
}

// Recent returns the latest finished jobs, newest first.
func (l *JobLog) Recent(limit int) ([]JobRecord, error) {
	var records []JobRecord
	err := l.db.Order("finished_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing sync jobs: %w", err)
	}
	return records, nil
}
