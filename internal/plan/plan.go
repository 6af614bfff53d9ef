// Package plan defines the subscription tiers and the feature gating policy
// applied by the processing pipeline. All lookups are pure functions over
// closed enumerations.
package plan

import (
	"fmt"

	"github.com/samber/lo"
)

// Name is a subscription tier, totally ordered by feature inclusion:
// Features(Free) ⊂ Features(Plus) ⊂ Features(Max).
type Name string

const (
	Free Name = "free"
	Plus Name = "plus"
	Max  Name = "max"
)

// Feature is a user-facing capability gated by plan. Feature identifiers
// match the billing dashboard configuration.
type Feature string

const (
	FeatureRecaps             Feature = "recaps"
	FeatureSocialPosts        Feature = "social_posts"
	FeatureTitles             Feature = "podcast_titles"
	FeatureHashtags           Feature = "hashtags"
	FeatureYouTubeTimestamps  Feature = "youtube_chapters"
	FeatureHighlightMoments   Feature = "highlight_moments"
	FeatureSpeakerDiarization Feature = "full_transcript_speaker_recognition"
)

// Job is one unit of pipeline work producing one artifact. Every job has
// exactly one feature; speaker diarization is the only feature without a job
// (it is captured during transcription, not generated).
type Job string

const (
	JobRecaps            Job = "recaps"
	JobSocialPosts       Job = "socialPosts"
	JobTitles            Job = "titles"
	JobHashtags          Job = "hashtags"
	JobHighlightMoments  Job = "highlightMoments"
	JobYouTubeTimestamps Job = "youtubeTimestamps"
)

// Jobs lists every pipeline job in launch order.
var Jobs = []Job{
	JobRecaps,
	JobSocialPosts,
	JobTitles,
	JobHashtags,
	JobHighlightMoments,
	JobYouTubeTimestamps,
}

// planFeatures maps each plan to its available features. Recaps is core
// functionality and is never gated.
var planFeatures = map[Name][]Feature{
	Free: {
		FeatureRecaps,
	},
	Plus: {
		FeatureRecaps,
		FeatureSocialPosts,
		FeatureTitles,
		FeatureHashtags,
	},
	Max: {
		FeatureRecaps,
		FeatureSocialPosts,
		FeatureTitles,
		FeatureHashtags,
		FeatureYouTubeTimestamps,
		FeatureHighlightMoments,
		FeatureSpeakerDiarization,
	},
}

// featureToJob is the fixed bijection between generation features and jobs.
var featureToJob = map[Feature]Job{
	FeatureRecaps:            JobRecaps,
	FeatureSocialPosts:       JobSocialPosts,
	FeatureTitles:            JobTitles,
	FeatureHashtags:          JobHashtags,
	FeatureHighlightMoments:  JobHighlightMoments,
	FeatureYouTubeTimestamps: JobYouTubeTimestamps,
}

// jobToFeature is the inverse of featureToJob.
var jobToFeature = lo.Invert(featureToJob)

// Valid reports whether p is a known plan name.
func Valid(p Name) bool {
	_, ok := planFeatures[p]
	return ok
}

// Normalize maps an unknown or empty plan name to the lowest tier.
func Normalize(p Name) Name {
	if !Valid(p) {
		return Free
	}
	return p
}

// Features returns the features available to a plan, ordered by the tier that
// introduced them.
func Features(p Name) []Feature {
	return planFeatures[Normalize(p)]
}

// HasFeature reports whether a plan includes a feature.
func HasFeature(p Name, f Feature) bool {
	return lo.Contains(Features(p), f)
}

// JobFor returns the pipeline job for a feature. Not every feature maps to a
// job: speaker diarization returns ok=false.
func JobFor(f Feature) (Job, bool) {
	j, ok := featureToJob[f]
	return j, ok
}

// FeatureFor returns the feature gating a job. Total over the job enumeration.
func FeatureFor(j Job) (Feature, bool) {
	f, ok := jobToFeature[j]
	return f, ok
}

// MinimumPlanFor returns the smallest plan whose feature set contains f.
func MinimumPlanFor(f Feature) Name {
	if lo.Contains(planFeatures[Free], f) {
		return Free
	}
	if lo.Contains(planFeatures[Plus], f) {
		return Plus
	}
	return Max
}

// JobsFor returns the generation jobs to launch for a plan, in launch order.
func JobsFor(p Name) []Job {
	return lo.FilterMap(Jobs, func(j Job, _ int) (Job, bool) {
		f, ok := jobToFeature[j]
		return j, ok && HasFeature(p, f)
	})
}

// RequiresChapters reports whether a job cannot run without provider-detected
// chapters.
func RequiresChapters(j Job) bool {
	return j == JobHighlightMoments || j == JobYouTubeTimestamps
}

// Prices holds display prices for upgrade messaging.
var Prices = map[Name]string{
	Free: "$0",
	Plus: "$21/month",
	Max:  "$34/month",
}

// UpgradeMessage builds the user-facing message shown when a retry is blocked
// by the entitlement gate.
func UpgradeMessage(j Job) string {
	f, ok := jobToFeature[j]
	if !ok {
		return fmt.Sprintf("This feature (%s) is not available on your current plan. Please upgrade to access it.", j)
	}
	min := MinimumPlanFor(f)
	return fmt.Sprintf("This feature (%s) is not available on your current plan. Please upgrade to %s (%s) to access it.", j, min, Prices[min])
}
