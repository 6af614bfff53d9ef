package transcription

import (
	"context"

	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/step"
	"podcastogist/internal/transcript"
)

// DirectService is the synchronous sibling of Service for local runs against
// the fixture provider: it submits and fetches in one pass instead of
// suspending on the webhook, so it works under runners that cannot wait for
// events.
type DirectService struct {
	provider Provider
	store    project.Store
	logger   *zap.Logger
}

func NewDirectService(provider Provider, store project.Store, logger *zap.Logger) *DirectService {
	return &DirectService{provider: provider, store: store, logger: logger}
}

// Transcribe submits, fetches immediately and persists the normalized
// transcript. Step IDs mirror the durable adapter so run traces line up.
func (s *DirectService) Transcribe(ctx context.Context, r step.Runner, audioURL, projectID string, p plan.Name) (*transcript.Transcript, error) {
	var transcriptID string
	err := r.Run(ctx, "start-transcription", func(ctx context.Context) (any, error) {
		return s.provider.Submit(ctx, audioURL, "")
	}, &transcriptID)
	if err != nil {
		return nil, err
	}

	var result Result
	err = r.Run(ctx, "fetch-transcript", func(ctx context.Context) (any, error) {
		return s.provider.Fetch(ctx, transcriptID)
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Status == "error" {
		return nil, errors.TranscriptionFailed(result.Error)
	}
	if result.Status != "completed" {
		return nil, errors.TranscriptionIncomplete(result.Status)
	}

	t := Normalize(&result)

	err = r.Run(ctx, "save-transcript", func(ctx context.Context) (any, error) {
		return nil, s.store.SaveTranscript(ctx, projectID, t)
	}, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("transcription completed (direct)",
		zap.String("projectId", projectID),
		zap.Int("chapters", len(t.Chapters)))

	return t, nil
}
