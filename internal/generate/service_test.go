package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/step"
	"podcastogist/internal/transcript"
)

func testTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Text: "Welcome to the show. Today we talk about building reliable pipelines.",
		Chapters: []transcript.Chapter{
			{Start: 0, End: 95000, Headline: "Cold open", Summary: "Introductions and agenda.", Gist: "intro"},
			{Start: 95000, End: 310000, Headline: "Durable workflows", Summary: "Why retries belong in the platform.", Gist: "workflows"},
		},
		Speakers: []transcript.Utterance{
			{Speaker: "A", Start: 0, End: 20, Text: "Welcome to the show."},
		},
		AudioDuration: 1800,
	}
}

func newTestService(fail map[string]error) *Service {
	c := NewFixtureCompleter()
	c.Fail = fail
	return NewService(c, zap.NewNop())
}

func TestGenerateAllJobs(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()
	tr := testTranscript()

	for _, job := range plan.Jobs {
		artifact, err := s.Generate(ctx, step.NewSyncRunner(), job, tr)
		require.NoError(t, err, "job %s", job)
		require.NotNil(t, artifact, "job %s", job)
	}
}

func TestGenerateUnknownJob(t *testing.T) {
	s := newTestService(nil)
	_, err := s.Generate(context.Background(), step.NewSyncRunner(), plan.Job("bogus"), testTranscript())
	assert.Error(t, err)
}

func TestRecaps(t *testing.T) {
	s := newTestService(nil)
	out, err := s.Recaps(context.Background(), step.NewSyncRunner(), testTranscript())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Full)
	assert.NotEmpty(t, out.TLDR)
	assert.NotEmpty(t, out.Bullets)
	assert.NotEmpty(t, out.Insights)
}

func TestRecapsCompleterFailure(t *testing.T) {
	boom := errors.New("model overloaded")
	s := newTestService(map[string]error{"recaps": boom})
	_, err := s.Recaps(context.Background(), step.NewSyncRunner(), testTranscript())
	assert.ErrorIs(t, err, boom)
}

func TestHighlightMomentsFromChapters(t *testing.T) {
	s := newTestService(nil)
	moments, err := s.HighlightMoments(context.Background(), testTranscript())
	require.NoError(t, err)
	require.Len(t, moments, 2)

	// Chapter start is provider milliseconds; moments carry seconds.
	assert.Equal(t, 95.0, moments[1].Timestamp)
	assert.Equal(t, "00:01:35", moments[1].Time)
	assert.Equal(t, "Durable workflows", moments[1].Text)
	assert.Equal(t, "Why retries belong in the platform.", moments[1].Description)
}

func TestHighlightMomentsNoChapters(t *testing.T) {
	s := newTestService(nil)
	moments, err := s.HighlightMoments(context.Background(), &transcript.Transcript{Text: "short"})
	require.NoError(t, err)
	assert.NotNil(t, moments)
	assert.Empty(t, moments)
}

func TestYouTubeTimestamps(t *testing.T) {
	s := newTestService(nil)
	stamps, err := s.YouTubeTimestamps(context.Background(), step.NewSyncRunner(), testTranscript())
	require.NoError(t, err)
	require.Len(t, stamps, 2)

	assert.Equal(t, "00:00:00", stamps[0].Time)
	// Fixture supplies three titles; the first two are used in order.
	assert.Equal(t, "Cold open and introductions", stamps[0].Title)
	assert.Equal(t, "00:01:35", stamps[1].Time)
}

func TestYouTubeTimestampsHeadlineFallback(t *testing.T) {
	// A completer returning an empty title list still yields markers, titled
	// with the raw chapter headlines.
	c := &staticCompleter{content: `{"titles": []}`}
	s := NewService(c, zap.NewNop())

	stamps, err := s.YouTubeTimestamps(context.Background(), step.NewSyncRunner(), testTranscript())
	require.NoError(t, err)
	require.Len(t, stamps, 2)
	assert.Equal(t, "Cold open", stamps[0].Title)
	assert.Equal(t, "Durable workflows", stamps[1].Title)
}

func TestYouTubeTimestampsNoChapters(t *testing.T) {
	s := newTestService(nil)
	stamps, err := s.YouTubeTimestamps(context.Background(), step.NewSyncRunner(), &transcript.Transcript{Text: "short"})
	require.NoError(t, err)
	assert.Empty(t, stamps)
}

func TestCompleteRunsAsAIStep(t *testing.T) {
	s := newTestService(nil)
	r := step.NewSyncRunner()
	_, err := s.Recaps(context.Background(), r, testTranscript())
	require.NoError(t, err)
	assert.Equal(t, []string{"generate-recaps-with-gpt"}, r.Executed())
}

type staticCompleter struct {
	content string
}

func (c *staticCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return c.content, nil
}
