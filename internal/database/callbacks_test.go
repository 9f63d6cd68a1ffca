package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"forum-service/internal/domain"
)

type queryRecord struct {
	operation string
	table     string
	duration  time.Duration
	err       error
}

type mockMetricsRecorder struct {
	queries []queryRecord
	stats   []sql.DBStats
}

func (m *mockMetricsRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.queries = append(m.queries, queryRecord{operation: operation, table: table, duration: duration, err: err})
}

func (m *mockMetricsRecorder) UpdateDBStats(stats sql.DBStats) {
	m.stats = append(m.stats, stats)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := New(Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestSafeAutoMigrateCreatesForumTables(t *testing.T) {
	db, err := New(Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, SafeAutoMigrate(db, zap.NewNop()))

	for _, table := range []string{"threads", "comments", "tags", "thread_tags", "thread_votes", "comment_votes"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestRegisterMetricsCallbacks(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	tag := domain.Tag{Name: "Irrigation", Slug: "irrigation"}
	require.NoError(t, db.Create(&tag).Error)

	var loaded domain.Tag
	require.NoError(t, db.First(&loaded, "id = ?", tag.ID).Error)
	require.NoError(t, db.Model(&loaded).Update("name", "Irrigation!").Error)
	require.NoError(t, db.Delete(&loaded).Error)

	ops := make([]string, 0, len(recorder.queries))
	for _, q := range recorder.queries {
		ops = append(ops, q.operation)
		assert.Equal(t, "tags", q.table)
		assert.NoError(t, q.err)
	}
	// soft delete is issued through the delete processor
	assert.Equal(t, []string{"insert", "select", "update", "delete"}, ops)
}

func TestRegisterMetricsCallbacksRecordsErrors(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	require.NoError(t, db.Create(&domain.Tag{Name: "Soil", Slug: "soil"}).Error)
	err := db.Create(&domain.Tag{Name: "SOIL", Slug: "soil"}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	last := recorder.queries[len(recorder.queries)-1]
	assert.Equal(t, "insert", last.operation)
	assert.Error(t, last.err)
}

func TestStartDBStatsCollector(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}

	done := StartDBStatsCollector(db, recorder, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(done)

	// give the goroutine time to observe done before reading
	time.Sleep(20 * time.Millisecond)
	assert.NotEmpty(t, recorder.stats)
}
