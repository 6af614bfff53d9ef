package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesAreMonotonic(t *testing.T) {
	free := Features(Free)
	plus := Features(Plus)
	max := Features(Max)

	for _, f := range free {
		assert.Contains(t, plus, f, "plus must include every free feature")
	}
	for _, f := range plus {
		assert.Contains(t, max, f, "max must include every plus feature")
	}
}

func TestRecapsNeverGated(t *testing.T) {
	for _, p := range []Name{Free, Plus, Max} {
		assert.True(t, HasFeature(p, FeatureRecaps), "plan %s", p)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Free, Normalize(""))
	assert.Equal(t, Free, Normalize("enterprise"))
	assert.Equal(t, Plus, Normalize(Plus))
	assert.Equal(t, Max, Normalize(Max))
}

func TestJobFeatureBijection(t *testing.T) {
	seen := map[Feature]bool{}
	for _, j := range Jobs {
		f, ok := FeatureFor(j)
		require.True(t, ok, "job %s has no feature", j)
		assert.False(t, seen[f], "feature %s mapped twice", f)
		seen[f] = true

		back, ok := JobFor(f)
		require.True(t, ok)
		assert.Equal(t, j, back)
	}

	// Diarization is captured during transcription; it has no job.
	_, ok := JobFor(FeatureSpeakerDiarization)
	assert.False(t, ok)
}

func TestJobsFor(t *testing.T) {
	assert.Equal(t, []Job{JobRecaps}, JobsFor(Free))
	assert.Equal(t,
		[]Job{JobRecaps, JobSocialPosts, JobTitles, JobHashtags},
		JobsFor(Plus))
	assert.Equal(t, Jobs, JobsFor(Max))
	assert.Equal(t, JobsFor(Free), JobsFor("unknown"))
}

func TestMinimumPlanFor(t *testing.T) {
	assert.Equal(t, Free, MinimumPlanFor(FeatureRecaps))
	assert.Equal(t, Plus, MinimumPlanFor(FeatureSocialPosts))
	assert.Equal(t, Plus, MinimumPlanFor(FeatureHashtags))
	assert.Equal(t, Max, MinimumPlanFor(FeatureHighlightMoments))
	assert.Equal(t, Max, MinimumPlanFor(FeatureSpeakerDiarization))
}

func TestRequiresChapters(t *testing.T) {
	assert.True(t, RequiresChapters(JobHighlightMoments))
	assert.True(t, RequiresChapters(JobYouTubeTimestamps))
	assert.False(t, RequiresChapters(JobRecaps))
	assert.False(t, RequiresChapters(JobSocialPosts))
}

func TestUpgradeMessage(t *testing.T) {
	msg := UpgradeMessage(JobHighlightMoments)
	assert.Contains(t, msg, "highlightMoments")
	assert.Contains(t, msg, "max")
	assert.Contains(t, msg, "$34/month")

	msg = UpgradeMessage(JobSocialPosts)
	assert.Contains(t, msg, "plus")
	assert.Contains(t, msg, "$21/month")
}

func TestCheckUpload(t *testing.T) {
	t.Run("free file size limit", func(t *testing.T) {
		check := CheckUpload(Free, 11*1024*1024, 0, 0)
		assert.False(t, check.Allowed)
		assert.Equal(t, "file_size", check.Reason)
	})

	t.Run("free duration limit", func(t *testing.T) {
		check := CheckUpload(Free, 1024, 601, 0)
		assert.False(t, check.Allowed)
		assert.Equal(t, "duration", check.Reason)
	})

	t.Run("free project limit", func(t *testing.T) {
		check := CheckUpload(Free, 1024, 60, 3)
		assert.False(t, check.Allowed)
		assert.Equal(t, "project_limit", check.Reason)
		assert.Contains(t, check.Message, "total")
	})

	t.Run("plus within limits", func(t *testing.T) {
		check := CheckUpload(Plus, 150*1024*1024, 3600, 10)
		assert.True(t, check.Allowed)
	})

	t.Run("max has no duration or project cap", func(t *testing.T) {
		check := CheckUpload(Max, 2*1024*1024*1024, 100000, 10000)
		assert.True(t, check.Allowed)
	})

	t.Run("zero duration skips the duration check", func(t *testing.T) {
		check := CheckUpload(Free, 1024, 0, 0)
		assert.True(t, check.Allowed)
	})
}
