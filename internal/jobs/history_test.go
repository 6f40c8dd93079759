package jobs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	history, err := NewHistory(filepath.Join(t.TempDir(), "history.db"), "mock")
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })
	return history
}

func terminalJob(id string, status Status) *Job {
	now := time.Now()
	return &Job{
		ID:          id,
		Source:      "talk.mp3",
		Status:      status,
		CreatedAt:   now.Add(-2 * time.Second),
		StartedAt:   now.Add(-time.Second),
		CompletedAt: now,
	}
}

func TestHistoryRecordAndRecent(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	done := terminalJob("job-1", StatusDone)
	require.NoError(t, history.Record(ctx, done))

	failed := terminalJob("job-2", StatusFailed)
	failed.Error = "cannot resolve source"
	failed.CompletedAt = failed.CompletedAt.Add(time.Second)
	require.NoError(t, history.Record(ctx, failed))

	entries, err := history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// most recent first
	assert.Equal(t, "job-2", entries[0].JobID)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "cannot resolve source", entries[0].Error)
	assert.Equal(t, "mock", entries[0].Provider)

	assert.Equal(t, "job-1", entries[1].JobID)
	assert.Equal(t, StatusDone, entries[1].Status)
	assert.Greater(t, entries[1].Duration, time.Duration(0))
}

func TestHistoryRejectsNonTerminal(t *testing.T) {
	history := newTestHistory(t)

	running := terminalJob("job-3", StatusRunning)
	assert.Error(t, history.Record(context.Background(), running))

	queued := terminalJob("job-4", StatusQueued)
	assert.Error(t, history.Record(context.Background(), queued))
}

func TestHistoryRecentLimit(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		job := terminalJob("job", StatusDone)
		job.CompletedAt = job.CompletedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, history.Record(ctx, job))
	}

	entries, err := history.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// zero limit falls back to the default
	entries, err = history.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestHistoryEmpty(t *testing.T) {
	history := newTestHistory(t)

	entries, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
