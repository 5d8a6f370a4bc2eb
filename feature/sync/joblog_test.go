package sync

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockJobLog(t *testing.T) (*JobLog, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &JobLog{db: db}, mock
}

func TestJobLog_Record(t *testing.T) {
	log, mock := newMockJobLog(t)

	mock.ExpectExec("UPDATE `sync_jobs`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := log.Record(Summary{
		ID:           "job-1",
		State:        JobCompleted,
		Total:        5,
		SuccessCount: 4,
		FailureCount: 1,
		StartedAt:    time.Now().Add(-time.Minute),
		FinishedAt:   time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobLog_Recent(t *testing.T) {
	log, mock := newMockJobLog(t)

	rows := sqlmock.NewRows([]string{"id", "state", "total", "success_count", "failure_count"}).
		AddRow("job-2", "completed", 3, 3, 0).
		AddRow("job-1", "cancelled", 5, 2, 0)
	mock.ExpectQuery("SELECT .* FROM `sync_jobs`").WillReturnRows(rows)

	records, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "job-2", records[0].ID)
	assert.Equal(t, "cancelled", records[1].State)
}
