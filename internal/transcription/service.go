package transcription

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/step"
	"podcastogist/internal/transcript"
)

// DefaultWaitTimeout bounds the durable wait for the provider webhook. No
// supported podcast realistically exceeds three hours of transcription.
const DefaultWaitTimeout = 3 * time.Hour

// Service is the transcription provider adapter: it submits audio, durably
// awaits the completion webhook, fetches and normalizes the result, and
// persists the canonical transcript so retries can read it without
// re-transcribing.
type Service struct {
	provider    Provider
	store       project.Store
	webhookBase string
	waitTimeout time.Duration
	logger      *zap.Logger
}

// NewService creates the adapter. webhookBase is the externally reachable
// application URL the provider calls back on.
func NewService(provider Provider, store project.Store, webhookBase string, logger *zap.Logger) *Service {
	return &Service{
		provider:    provider,
		store:       store,
		webhookBase: webhookBase,
		waitTimeout: DefaultWaitTimeout,
		logger:      logger,
	}
}

// WithWaitTimeout overrides the webhook wait timeout, used by tests.
func (s *Service) WithWaitTimeout(d time.Duration) *Service {
	s.waitTimeout = d
	return s
}

// WebhookURL builds the provider callback URL carrying the project id.
func (s *Service) WebhookURL(projectID string) (string, error) {
	if s.webhookBase == "" {
		return "", errors.New("app URL is required for transcription webhooks")
	}
	u, err := url.Parse(s.webhookBase)
	if err != nil {
		return "", errors.Wrap(err, "parse app URL")
	}
	u = u.JoinPath("/api/webhooks/assemblyai")
	q := u.Query()
	q.Set("projectId", projectID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Transcribe converts the audio at audioURL into the canonical transcript.
// The wait between submission and fetch suspends the workflow without holding
// a connection and survives process restarts under a durable runner. Any
// failure is recorded against the project under step "transcription" before
// it bubbles to the workflow-level handler.
func (s *Service) Transcribe(ctx context.Context, r step.Runner, audioURL, projectID string, p plan.Name) (*transcript.Transcript, error) {
	s.logger.Info("starting transcription",
		zap.String("projectId", projectID),
		zap.String("plan", string(p)))

	t, err := s.transcribe(ctx, r, audioURL, projectID)
	if err != nil {
		s.recordFailure(ctx, r, projectID, err)
		return nil, err
	}
	return t, nil
}

func (s *Service) transcribe(ctx context.Context, r step.Runner, audioURL, projectID string) (*transcript.Transcript, error) {
	webhookURL, err := s.WebhookURL(projectID)
	if err != nil {
		return nil, err
	}

	var transcriptID string
	err = r.Run(ctx, "start-transcription", func(ctx context.Context) (any, error) {
		return s.provider.Submit(ctx, audioURL, webhookURL)
	}, &transcriptID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("transcription queued",
		zap.String("projectId", projectID),
		zap.String("transcriptId", transcriptID))

	// Durable wait for the provider webhook, correlated by project id. A
	// long-poll here would hold a connection for hours; the signal
	// rendezvous suspends the workflow instead.
	var ev StatusEvent
	found, err := r.WaitForEvent(ctx, "wait-for-transcription", step.WaitOptions{
		Event:   StatusEventName,
		Timeout: s.waitTimeout,
		Match: func(payload any) bool {
			e, ok := payload.(*StatusEvent)
			return ok && e.ProjectID == projectID
		},
	}, &ev)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrTranscriptionTimeout
	}
	if ev.Status == "error" {
		return nil, errors.TranscriptionFailed(ev.Error)
	}

	var result Result
	err = r.Run(ctx, "fetch-transcript", func(ctx context.Context) (any, error) {
		return s.provider.Fetch(ctx, transcriptID)
	}, &result)
	if err != nil {
		return nil, err
	}

	// The signal said success; the fetched state must agree.
	if result.Status == "error" {
		return nil, errors.TranscriptionFailed(result.Error)
	}
	if result.Status != "completed" {
		return nil, errors.TranscriptionIncomplete(result.Status)
	}

	t := Normalize(&result)

	s.logger.Info("transcription completed",
		zap.String("projectId", projectID),
		zap.Int("segments", len(t.Segments)),
		zap.Int("chapters", len(t.Chapters)),
		zap.Int("speakers", len(t.Speakers)))

	// Persist so a later retry can read the transcript without
	// re-transcribing.
	err = r.Run(ctx, "save-transcript", func(ctx context.Context) (any, error) {
		return nil, s.store.SaveTranscript(ctx, projectID, t)
	}, nil)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Normalize transforms the provider transcript into the canonical shape.
// Segments and chapters keep provider milliseconds; speaker utterances are
// converted to seconds for downstream consumers.
func Normalize(result *Result) *transcript.Transcript {
	segments := make([]transcript.Segment, 0, len(result.Segments))
	for i, seg := range result.Segments {
		words := make([]transcript.Word, 0, len(seg.Words))
		for _, w := range seg.Words {
			words = append(words, transcript.Word{Word: w.Text, Start: w.Start, End: w.End})
		}
		segments = append(segments, transcript.Segment{
			ID:    i,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
			Words: words,
		})
	}

	speakers := make([]transcript.Utterance, 0, len(result.Utterances))
	for _, u := range result.Utterances {
		speakers = append(speakers, transcript.Utterance{
			Speaker:    u.Speaker,
			Start:      float64(u.Start) / 1000,
			End:        float64(u.End) / 1000,
			Text:       u.Text,
			Confidence: u.Confidence,
		})
	}

	chapters := make([]transcript.Chapter, 0, len(result.Chapters))
	for _, ch := range result.Chapters {
		chapters = append(chapters, transcript.Chapter{
			Start:    ch.Start,
			End:      ch.End,
			Headline: ch.Headline,
			Summary:  ch.Summary,
			Gist:     ch.Gist,
		})
	}

	return &transcript.Transcript{
		Text:          result.Text,
		Segments:      segments,
		Speakers:      speakers,
		Chapters:      chapters,
		AudioDuration: result.AudioDuration,
	}
}

// recordFailure marks the project with the transcription error, as its own
// step so the write is not repeated on replay. Best effort: a project
// deleted mid-run is expected and only logged.
func (s *Service) recordFailure(ctx context.Context, r step.Runner, projectID string, cause error) {
	terminal := project.TerminalError{
		Message: cause.Error(),
		Step:    "transcription",
	}
	err := r.Run(ctx, "record-transcription-error", func(ctx context.Context) (any, error) {
		return nil, s.store.RecordError(ctx, projectID, terminal)
	}, nil)
	if err != nil {
		s.logger.Warn("failed to record transcription error",
			zap.String("projectId", projectID),
			zap.Error(err))
	}
}
