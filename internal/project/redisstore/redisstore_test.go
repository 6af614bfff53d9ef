package redisstore

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/transcript"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, zap.NewNop())
}

func createProject(t *testing.T, s *Store, id string) *project.Project {
	t.Helper()
	p := &project.Project{
		ID:      id,
		UserID:  "user-1",
		Plan:    plan.Plus,
		FileURL: "https://cdn.example.com/audio.mp3",
	}
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createProject(t, s, "p1")

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, plan.Plus, got.Plan)
	assert.Equal(t, project.StatusUploaded, got.Status)
	assert.Equal(t, project.PhasePending, got.JobStatus.Transcription)
	assert.Equal(t, project.PhasePending, got.JobStatus.ContentGeneration)
	assert.Nil(t, got.Transcript)
	assert.Empty(t, got.JobErrors)
	assert.Empty(t, got.GeneratedContent)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.True(t, stderrors.Is(err, apperrors.ErrProjectNotFound))
}

func TestMutationsFailOnMissingProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	status := project.PhaseRunning
	mutations := map[string]error{
		"updateStatus":    s.UpdateStatus(ctx, "gone", project.StatusProcessing),
		"updateJobStatus": s.UpdateJobStatus(ctx, "gone", project.JobStatusUpdate{Transcription: &status}),
		"saveTranscript":  s.SaveTranscript(ctx, "gone", &transcript.Transcript{Text: "x"}),
		"saveContent":     s.SaveGeneratedContent(ctx, "gone", map[plan.Job]any{plan.JobRecaps: "x"}),
		"saveJobErrors":   s.SaveJobErrors(ctx, "gone", map[plan.Job]string{plan.JobRecaps: "boom"}),
		"clearJobError":   s.ClearJobError(ctx, "gone", plan.JobRecaps),
		"recordError":     s.RecordError(ctx, "gone", project.TerminalError{Message: "boom"}),
	}
	for name, err := range mutations {
		assert.True(t, stderrors.Is(err, apperrors.ErrProjectNotFound), name)
	}
}

func TestStatusAndJobStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createProject(t, s, "p1")

	require.NoError(t, s.UpdateStatus(ctx, "p1", project.StatusProcessing))

	running := project.PhaseRunning
	require.NoError(t, s.UpdateJobStatus(ctx, "p1", project.JobStatusUpdate{Transcription: &running}))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, project.StatusProcessing, got.Status)
	assert.Equal(t, project.PhaseRunning, got.JobStatus.Transcription)
	// Untouched phase stays pending.
	assert.Equal(t, project.PhasePending, got.JobStatus.ContentGeneration)
}

func TestSaveTranscriptRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createProject(t, s, "p1")

	in := &transcript.Transcript{
		Text: "hello world",
		Chapters: []transcript.Chapter{
			{Start: 0, End: 60000, Headline: "Intro"},
		},
		Speakers: []transcript.Utterance{
			{Speaker: "A", Start: 0, End: 12.5, Text: "hello"},
		},
		AudioDuration: 600,
	}
	require.NoError(t, s.SaveTranscript(ctx, "p1", in))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Transcript)
	assert.Equal(t, in.Text, got.Transcript.Text)
	assert.Equal(t, in.Chapters, got.Transcript.Chapters)
	assert.Equal(t, in.Speakers, got.Transcript.Speakers)
}

func TestGeneratedContentPartialWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createProject(t, s, "p1")

	require.NoError(t, s.SaveGeneratedContent(ctx, "p1", map[plan.Job]any{
		plan.JobRecaps:      map[string]string{"tldr": "short"},
		plan.JobSocialPosts: map[string]string{"twitter": "tweet"},
	}))

	// A single-artifact save must not disturb the other keys.
	require.NoError(t, s.SaveArtifact(ctx, "p1", plan.JobRecaps, map[string]string{"tldr": "updated"}))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.GeneratedContent, 2)

	var recaps map[string]string
	ok, err := got.Artifact(plan.JobRecaps, &recaps)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "updated", recaps["tldr"])

	ok, err = got.Artifact(plan.JobTitles, &recaps)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJobErrorsMergeAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createProject(t, s, "p1")

	require.NoError(t, s.SaveJobErrors(ctx, "p1", map[plan.Job]string{
		plan.JobRecaps: "recaps failed",
		plan.JobTitles: "titles failed",
	}))

	// Clearing one job leaves the other in place.
	require.NoError(t, s.ClearJobError(ctx, "p1", plan.JobRecaps))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[plan.Job]string{plan.JobTitles: "titles failed"}, got.JobErrors)

	// A later merge for a different job must not resurrect the cleared key.
	require.NoError(t, s.SaveJobErrors(ctx, "p1", map[plan.Job]string{plan.JobHashtags: "hashtags failed"}))

	got, err = s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[plan.Job]string{
		plan.JobTitles:   "titles failed",
		plan.JobHashtags: "hashtags failed",
	}, got.JobErrors)
}

func TestRecordError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createProject(t, s, "p1")

	require.NoError(t, s.RecordError(ctx, "p1", project.TerminalError{
		Message: "transcription timed out",
		Step:    "workflow",
	}))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, project.StatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "workflow", got.Error.Step)
	assert.Equal(t, "transcription timed out", got.Error.Message)
}

func TestDeleteAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createProject(t, s, "p1")
	createProject(t, s, "p2")

	n, err := s.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Delete(ctx, "p1"))

	_, err = s.Get(ctx, "p1")
	assert.True(t, stderrors.Is(err, apperrors.ErrProjectNotFound))

	n, err = s.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	createProject(t, s, "p1")

	updates, err := s.Subscribe(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(ctx, "p1", project.StatusProcessing))

	select {
	case u := <-updates:
		assert.Equal(t, "p1", u.ProjectID)
		assert.Equal(t, "status", u.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}

	cancel()
	select {
	case _, open := <-updates:
		assert.False(t, open, "channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}
