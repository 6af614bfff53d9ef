package pipeline

import (
	"context"

	stderrors "errors"

	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/step"
)

// saveStepIDs names the per-job artifact persistence steps.
var saveStepIDs = map[plan.Job]string{
	plan.JobRecaps:            "save-recaps",
	plan.JobSocialPosts:       "save-social-posts",
	plan.JobTitles:            "save-titles",
	plan.JobHashtags:          "save-hashtags",
	plan.JobHighlightMoments:  "save-highlight-moments",
	plan.JobYouTubeTimestamps: "save-youtube-timestamps",
}

// RetryJob re-executes a single generation job against the stored transcript.
// The entitlement gate runs against the CURRENT plan, so a stale client
// replaying a retry for a feature the plan no longer grants is rejected, and
// an upgraded user can generate newly unlocked features.
func (s *Service) RetryJob(ctx context.Context, r step.Runner, ev RetryJobEvent) (RetryResult, error) {
	res := RetryResult{Job: ev.Job}
	current := plan.Normalize(ev.CurrentPlan)
	original := plan.Normalize(ev.OriginalPlan)

	if feature, ok := plan.FeatureFor(ev.Job); ok && !plan.HasFeature(current, feature) {
		s.metrics.workflow("retry", "not_entitled")
		return res, errors.FeatureNotEntitled(plan.UpgradeMessage(ev.Job))
	}

	if original != current {
		s.logger.Info("plan changed since original run",
			zap.String("projectId", ev.ProjectID),
			zap.String("originalPlan", string(original)),
			zap.String("currentPlan", string(current)),
			zap.String("job", string(ev.Job)))
	}

	var proj project.Project
	err := r.Run(ctx, "load-project", func(ctx context.Context) (any, error) {
		return s.store.Get(ctx, ev.ProjectID)
	}, &proj)
	if stderrors.Is(err, errors.ErrProjectNotFound) {
		s.logger.Warn("project no longer exists, skipping retry",
			zap.String("projectId", ev.ProjectID))
		s.metrics.workflow("retry", "project_gone")
		return res, nil
	}
	if err != nil {
		return res, err
	}

	t := proj.Transcript
	if !t.HasText() {
		return res, errors.ErrMissingTranscript.WithCause(
			errors.New("cannot generate content: transcript text is empty, please re-upload the file"))
	}
	if plan.RequiresChapters(ev.Job) && !t.HasChapters() {
		return res, errors.NoChaptersDetected(string(ev.Job))
	}

	artifact, err := s.generator.Generate(ctx, r, ev.Job, t)
	if err == nil {
		err = r.Run(ctx, saveStepIDs[ev.Job], func(ctx context.Context) (any, error) {
			return nil, s.store.SaveArtifact(ctx, ev.ProjectID, ev.Job, artifact)
		}, nil)
	}
	if err != nil {
		s.logger.Error("retry job failed",
			zap.String("projectId", ev.ProjectID),
			zap.String("job", string(ev.Job)),
			zap.Error(err))
		s.metrics.job(string(ev.Job), "failed")
		s.metrics.workflow("retry", "failed")

		// Merge, never replace: only this job's key is written.
		jobErr := err.Error()
		saveErr := r.Run(ctx, "save-job-error", func(ctx context.Context) (any, error) {
			return nil, s.store.SaveJobErrors(ctx, ev.ProjectID, map[plan.Job]string{ev.Job: jobErr})
		}, nil)
		if saveErr != nil {
			s.logger.Error("failed to save job error",
				zap.String("projectId", ev.ProjectID),
				zap.Error(saveErr))
		}
		return res, err
	}

	// Atomic single-key delete clears the job's failed badge in the UI.
	err = r.Run(ctx, "clear-job-error", func(ctx context.Context) (any, error) {
		return nil, s.store.ClearJobError(ctx, ev.ProjectID, ev.Job)
	}, nil)
	if err != nil {
		return res, err
	}

	s.metrics.job(string(ev.Job), "completed")
	s.metrics.workflow("retry", "completed")
	res.Success = true
	return res, nil
}
