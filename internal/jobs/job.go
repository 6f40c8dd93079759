package jobs

import (
	"time"

	"github.com/mgpai22/likhit/internal/transcript"
)

// lifecycle status of a job
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Terminal reports whether a status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// isValidTransition enforces the queued -> running -> done|failed edges.
func isValidTransition(from, to Status) bool {
	switch from {
	case StatusQueued:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusDone || to == StatusFailed
	default:
		return false
	}
}

// Job pairs a raw source with its options and lifecycle state. Jobs are
// owned exclusively by the runner; nothing else mutates them.
type Job struct {
	ID          string
	Source      string
	Options     transcript.Options
	Status      Status
	Result      *transcript.Result
	Error       string
	OutputPaths map[string]string // format identifier -> written file
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}

// Elapsed returns processing time for started jobs, zero otherwise.
func (j *Job) Elapsed() time.Duration {
	if j.StartedAt.IsZero() {
		return 0
	}
	end := j.CompletedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(j.StartedAt)
}
