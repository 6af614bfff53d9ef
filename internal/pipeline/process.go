package pipeline

import (
	"context"
	"fmt"

	stderrors "errors"

	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/step"
	"podcastogist/internal/transcript"
)

// Transcriber converts audio at a URL into the canonical transcript,
// suspending on the runner while the provider works.
type Transcriber interface {
	Transcribe(ctx context.Context, r step.Runner, audioURL, projectID string, p plan.Name) (*transcript.Transcript, error)
}

// Generator runs exactly one generation job.
type Generator interface {
	Generate(ctx context.Context, r step.Runner, job plan.Job, t *transcript.Transcript) (any, error)
}

// Service orchestrates the processing and retry workflows. Collaborators are
// injected so tests can swap any of them.
type Service struct {
	store       project.Store
	transcriber Transcriber
	generator   Generator
	metrics     *Metrics
	logger      *zap.Logger
}

// NewService creates the orchestrator.
func NewService(store project.Store, transcriber Transcriber, generator Generator, metrics *Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		transcriber: transcriber,
		generator:   generator,
		metrics:     metrics,
		logger:      logger,
	}
}

// Process runs the main workflow for one uploaded file: transcription, then
// a plan-conditioned parallel fan-out of generation jobs, then atomic result
// persistence.
//
// A project deleted mid-run by the dashboard is an expected concurrent
// operation, not a pipeline bug: it is logged and reported as success=false
// without an error. Any other failure is recorded against the project as a
// terminal error and re-raised so the runner's outer retry policy gets its
// remaining attempts.
func (s *Service) Process(ctx context.Context, r step.Runner, ev UploadCompletedEvent) (ProcessResult, error) {
	p := plan.Normalize(ev.Plan)
	res := ProcessResult{ProjectID: ev.ProjectID, Plan: p}

	s.logger.Info("processing project",
		zap.String("projectId", ev.ProjectID),
		zap.String("plan", string(p)))

	if err := s.process(ctx, r, ev, p); err != nil {
		if stderrors.Is(err, errors.ErrProjectNotFound) {
			s.logger.Warn("project no longer exists, stopping pipeline safely",
				zap.String("projectId", ev.ProjectID))
			s.metrics.workflow("process", "project_gone")
			return res, nil
		}

		s.logger.Error("podcast processing failed",
			zap.String("projectId", ev.ProjectID),
			zap.Error(err))
		s.metrics.workflow("process", "failed")

		// Runs as its own step so a mid-run replay cannot duplicate the
		// write; a fresh outer retry attempt starts a new run and still
		// re-records its own failure.
		terminal := project.TerminalError{
			Message: err.Error(),
			Step:    "workflow",
			Details: fmt.Sprintf("%+v", err),
		}
		recErr := r.Run(ctx, "record-workflow-error", func(ctx context.Context) (any, error) {
			return nil, s.store.RecordError(ctx, ev.ProjectID, terminal)
		}, nil)
		if recErr != nil {
			s.logger.Error("failed to record workflow error",
				zap.String("projectId", ev.ProjectID),
				zap.Error(recErr))
		}
		return res, err
	}

	s.metrics.workflow("process", "completed")
	res.Success = true
	return res, nil
}

func (s *Service) process(ctx context.Context, r step.Runner, ev UploadCompletedEvent, p plan.Name) error {
	err := r.Run(ctx, "update-status-processing", func(ctx context.Context) (any, error) {
		return nil, s.store.UpdateStatus(ctx, ev.ProjectID, project.StatusProcessing)
	}, nil)
	if err != nil {
		return err
	}

	running := project.PhaseRunning
	completed := project.PhaseCompleted

	err = r.Run(ctx, "update-job-status-transcription-running", func(ctx context.Context) (any, error) {
		return nil, s.store.UpdateJobStatus(ctx, ev.ProjectID, project.JobStatusUpdate{Transcription: &running})
	}, nil)
	if err != nil {
		return err
	}

	// Sequential: nothing can run without a transcript. This step may
	// suspend for hours awaiting the provider webhook. Elapsed time comes
	// from the runner, which is replay-safe under a durable scheduler.
	started := r.Now()
	t, err := s.transcriber.Transcribe(ctx, r, ev.FileURL, ev.ProjectID, p)
	if err != nil {
		return err
	}
	s.metrics.transcription(r.Now().Sub(started).Seconds())

	err = r.Run(ctx, "update-job-status-transcription-completed", func(ctx context.Context) (any, error) {
		return nil, s.store.UpdateJobStatus(ctx, ev.ProjectID, project.JobStatusUpdate{Transcription: &completed})
	}, nil)
	if err != nil {
		return err
	}

	err = r.Run(ctx, "update-job-status-generation-running", func(ctx context.Context) (any, error) {
		return nil, s.store.UpdateJobStatus(ctx, ev.ProjectID, project.JobStatusUpdate{ContentGeneration: &running})
	}, nil)
	if err != nil {
		return err
	}

	generated, jobErrors := s.fanOut(ctx, r, plan.JobsFor(p), t)

	if len(jobErrors) > 0 {
		err = r.Run(ctx, "save-job-errors", func(ctx context.Context) (any, error) {
			return nil, s.store.SaveJobErrors(ctx, ev.ProjectID, jobErrors)
		}, nil)
		if err != nil {
			return err
		}
	}

	// Generation is done once every job has settled, success or not:
	// completion reflects no-more-work-pending, not all-succeeded. Per-job
	// failures are already visible through jobErrors.
	err = r.Run(ctx, "update-job-status-generation-completed", func(ctx context.Context) (any, error) {
		return nil, s.store.UpdateJobStatus(ctx, ev.ProjectID, project.JobStatusUpdate{ContentGeneration: &completed})
	}, nil)
	if err != nil {
		return err
	}

	return r.Run(ctx, "save-generated-content", func(ctx context.Context) (any, error) {
		if err := s.store.SaveGeneratedContent(ctx, ev.ProjectID, generated); err != nil {
			return nil, err
		}
		return nil, s.store.UpdateStatus(ctx, ev.ProjectID, project.StatusCompleted)
	}, nil)
}

// fanOut launches the selected jobs concurrently and waits for every
// settlement. A failing job never cancels or blocks its siblings; only the
// error message is kept, keyed by job name.
func (s *Service) fanOut(ctx context.Context, r step.Runner, jobs []plan.Job, t *transcript.Transcript) (map[plan.Job]any, map[plan.Job]string) {
	type settlement struct {
		artifact any
		err      error
	}
	settlements := make([]settlement, len(jobs))

	wg := r.NewWaitGroup()
	for i, job := range jobs {
		i, job := i, job
		wg.Add(1)
		r.Go(ctx, func(ctx context.Context) {
			defer wg.Done()
			artifact, err := s.generator.Generate(ctx, r, job, t)
			settlements[i] = settlement{artifact: artifact, err: err}
		})
	}
	wg.Wait(ctx)

	generated := make(map[plan.Job]any)
	jobErrors := make(map[plan.Job]string)
	for i, job := range jobs {
		if err := settlements[i].err; err != nil {
			s.logger.Error("generation job failed",
				zap.String("job", string(job)),
				zap.Error(err))
			s.metrics.job(string(job), "failed")
			jobErrors[job] = err.Error()
			continue
		}
		s.metrics.job(string(job), "completed")
		generated[job] = settlements[i].artifact
	}
	return generated, jobErrors
}
