package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/validator.v2"

	"github.com/mgpai22/likhit/internal/format"
	"github.com/mgpai22/likhit/internal/logging"
	"github.com/mgpai22/likhit/internal/media"
	"github.com/mgpai22/likhit/internal/source"
	"github.com/mgpai22/likhit/internal/transcribe"
	"github.com/mgpai22/likhit/internal/transcript"
)

// Summary counts terminal job outcomes after a run.
type Summary struct {
	Done   int
	Failed int
}

// Runner processes jobs strictly sequentially in submission order. A job
// failure is recorded and the runner proceeds to the next job.
type Runner struct {
	transcriber transcribe.Transcriber
	outputDir   string
	log         *logging.Logger
	history     *History

	// PrepareAudio extracts the audio track of local video sources to a
	// temp file before the provider call. Requires ffmpeg on PATH.
	PrepareAudio bool

	jobs []*Job
}

func NewRunner(
	transcriber transcribe.Transcriber,
	outputDir string,
	log *logging.Logger,
	history *History,
) *Runner {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Runner{
		transcriber: transcriber,
		outputDir:   outputDir,
		log:         log,
		history:     history,
	}
}

// Enqueue validates options and appends a queued job.
func (r *Runner) Enqueue(rawSource string, opts transcript.Options) (*Job, error) {
	opts.Source = rawSource
	if err := validator.Validate(opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	formats := opts.Formats()
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output formats requested")
	}
	for _, f := range formats {
		if _, err := format.NewRenderer(format.Format(f)); err != nil {
			return nil, err
		}
	}

	job := &Job{
		ID:          uuid.NewString(),
		Source:      rawSource,
		Options:     opts,
		Status:      StatusQueued,
		OutputPaths: make(map[string]string),
		CreatedAt:   time.Now(),
	}
	r.jobs = append(r.jobs, job)
	return job, nil
}

// Drop removes a not-yet-started job from the queue. Running or finished
// jobs cannot be dropped.
func (r *Runner) Drop(id string) error {
	for i, job := range r.jobs {
		if job.ID != id {
			continue
		}
		if job.Status != StatusQueued {
			return fmt.Errorf("job %s is %s, only queued jobs can be dropped", id, job.Status)
		}
		r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
		return nil
	}
	return fmt.Errorf("no such job: %s", id)
}

// Jobs returns the current queue in submission order.
func (r *Runner) Jobs() []*Job {
	return r.jobs
}

// Run processes every queued job in order and returns the outcome counts.
func (r *Runner) Run(ctx context.Context) Summary {
	var summary Summary

	for _, job := range r.jobs {
		if job.Status != StatusQueued {
			continue
		}

		r.transition(job, StatusRunning)
		job.StartedAt = time.Now()

		r.log.Infow("Processing job",
			"id", job.ID,
			"source", job.Source,
		)

		if err := r.process(ctx, job); err != nil {
			job.Error = err.Error()
			job.CompletedAt = time.Now()
			r.transition(job, StatusFailed)
			summary.Failed++
			r.log.Warnw("Job failed",
				"id", job.ID,
				"source", job.Source,
				"error", err,
			)
		} else {
			job.CompletedAt = time.Now()
			r.transition(job, StatusDone)
			summary.Done++
			r.log.Infow("Job done",
				"id", job.ID,
				"source", job.Source,
				"outputs", len(job.OutputPaths),
			)
		}

		r.record(ctx, job)
	}

	return summary
}

func (r *Runner) transition(job *Job, to Status) {
	if !isValidTransition(job.Status, to) {
		// transitions are driven only by this file; a bad edge is a bug
		panic(fmt.Sprintf("invalid job transition: %s -> %s", job.Status, to))
	}
	job.Status = to
}

func (r *Runner) process(ctx context.Context, job *Job) error {
	src, err := source.Resolve(job.Source)
	if err != nil {
		return err
	}

	// output filenames derive from the original source, not the temp audio
	named := src

	if r.PrepareAudio && src.IsVideo() {
		prepared, cleanup, err := r.extractAudio(ctx, src)
		if err != nil {
			return err
		}
		defer cleanup()
		src = prepared
	}

	result, err := r.transcriber.Transcribe(ctx, src, job.Options)
	if err != nil {
		return err
	}
	job.Result = result

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, id := range job.Options.Formats() {
		renderer, err := format.NewRenderer(format.Format(id))
		if err != nil {
			return err
		}

		rendered, err := renderer.Render(result, job.Options)
		if err != nil {
			return err
		}

		path := named.OutputPath(
			r.outputDir,
			result.Language,
			format.ExtensionForFormat(format.Format(id)),
		)
		if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write %s output: %w", id, err)
		}
		job.OutputPaths[id] = path
	}

	return nil
}

func (r *Runner) extractAudio(
	ctx context.Context,
	src source.Source,
) (source.Source, func(), error) {
	tempDir, err := os.MkdirTemp("", "likhit-*")
	if err != nil {
		return source.Source{}, nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }

	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := media.ExtractAudio(ctx, src.Path, audioPath, media.DefaultAudioOptions()); err != nil {
		cleanup()
		return source.Source{}, nil, err
	}

	r.log.Debugw("Extracted audio track",
		"video", src.Path,
		"audio", audioPath,
	)

	return source.Source{Kind: source.KindFile, Path: audioPath}, cleanup, nil
}

func (r *Runner) record(ctx context.Context, job *Job) {
	if r.history == nil {
		return
	}
	if err := r.history.Record(ctx, job); err != nil {
		r.log.Warnw("Failed to record job history",
			"id", job.ID,
			"error", err,
		)
	}
}
