package generate

import (
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/step"
	"podcastogist/internal/transcript"
)

// Service runs generation jobs against a completer.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// NewService creates a generation service.
func NewService(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Generate dispatches exactly one job. The switch is exhaustive over the job
// enumeration so a new job cannot be added without a generation path.
func (s *Service) Generate(ctx context.Context, r step.Runner, job plan.Job, t *transcript.Transcript) (any, error) {
	switch job {
	case plan.JobRecaps:
		return s.Recaps(ctx, r, t)
	case plan.JobSocialPosts:
		return s.SocialPosts(ctx, r, t)
	case plan.JobTitles:
		return s.Titles(ctx, r, t)
	case plan.JobHashtags:
		return s.Hashtags(ctx, r, t)
	case plan.JobHighlightMoments:
		return s.HighlightMoments(ctx, t)
	case plan.JobYouTubeTimestamps:
		return s.YouTubeTimestamps(ctx, r, t)
	default:
		return nil, errors.Newf("unknown generation job: %s", job)
	}
}

// Recaps generates the multi-format summary package.
func (s *Service) Recaps(ctx context.Context, r step.Runner, t *transcript.Transcript) (*Recaps, error) {
	var out Recaps
	err := s.complete(ctx, r, "generate-recaps-with-gpt", CompletionRequest{
		System:     recapsSystemPrompt,
		Prompt:     buildRecapsPrompt(t),
		SchemaName: "recaps",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SocialPosts generates one channel-ready post per platform.
func (s *Service) SocialPosts(ctx context.Context, r step.Runner, t *transcript.Transcript) (*SocialPosts, error) {
	var out SocialPosts
	err := s.complete(ctx, r, "generate-social-posts-with-gpt", CompletionRequest{
		System:     socialPostsSystemPrompt,
		Prompt:     buildSocialPostsPrompt(t),
		SchemaName: "social_posts",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Titles generates episode title candidates plus SEO keywords.
func (s *Service) Titles(ctx context.Context, r step.Runner, t *transcript.Transcript) (*Titles, error) {
	var out Titles
	err := s.complete(ctx, r, "generate-titles-with-gpt", CompletionRequest{
		System:     titlesSystemPrompt,
		Prompt:     buildTitlesPrompt(t),
		SchemaName: "titles",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Hashtags generates the grouped hashtag strategy.
func (s *Service) Hashtags(ctx context.Context, r step.Runner, t *transcript.Transcript) (*Hashtags, error) {
	var out Hashtags
	err := s.complete(ctx, r, "generate-hashtags-with-gpt", CompletionRequest{
		System:     hashtagsSystemPrompt,
		Prompt:     buildHashtagsPrompt(t),
		SchemaName: "hashtags",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HighlightMoments derives highlight moments from the provider-detected
// chapters. Near-instant, no AI call. An empty chapter list yields an empty
// result rather than an error: short or topic-flat podcasts genuinely lack
// chapters.
func (s *Service) HighlightMoments(ctx context.Context, t *transcript.Transcript) ([]HighlightMoment, error) {
	if !t.HasChapters() {
		s.logger.Info("no chapters detected, returning empty highlight moments")
		return []HighlightMoment{}, nil
	}

	moments := make([]HighlightMoment, 0, len(t.Chapters))
	for _, ch := range t.Chapters {
		startSeconds := float64(ch.Start) / 1000
		moments = append(moments, HighlightMoment{
			Time:        transcript.FormatTimestamp(startSeconds, true),
			Timestamp:   startSeconds,
			Text:        ch.Headline,
			Description: ch.Summary,
		})
	}
	return moments, nil
}

// youtubeChapterTitles is the structured output for YouTube chapter titling.
type youtubeChapterTitles struct {
	Titles []string `json:"titles"`
}

// YouTubeTimestamps rewrites chapter headlines as YouTube chapter markers.
// Chapter timing comes from the transcription provider; only the titles go
// through the completer. Falls back to the raw headline when the completer
// returns fewer titles than chapters.
func (s *Service) YouTubeTimestamps(ctx context.Context, r step.Runner, t *transcript.Transcript) ([]YouTubeTimestamp, error) {
	if !t.HasChapters() {
		s.logger.Info("no chapters detected, returning empty youtube timestamps")
		return []YouTubeTimestamp{}, nil
	}

	var titled youtubeChapterTitles
	err := s.complete(ctx, r, "generate-youtube-timestamps-with-gpt", CompletionRequest{
		System:     youtubeTimestampsSystemPrompt,
		Prompt:     buildYouTubeTimestampsPrompt(t),
		SchemaName: "youtube_chapter_titles",
	}, &titled)
	if err != nil {
		return nil, err
	}

	stamps := make([]YouTubeTimestamp, 0, len(t.Chapters))
	for i, ch := range t.Chapters {
		title := ch.Headline
		if i < len(titled.Titles) && titled.Titles[i] != "" {
			title = titled.Titles[i]
		}
		stamps = append(stamps, YouTubeTimestamp{
			Time:  transcript.FormatTimestamp(float64(ch.Start)/1000, true),
			Title: title,
		})
	}
	return stamps, nil
}

// complete runs one structured completion as an AI step and decodes the JSON
// content into out.
func (s *Service) complete(ctx context.Context, r step.Runner, stepID string, req CompletionRequest, out any) error {
	schema, err := jsonschema.GenerateSchemaForType(out)
	if err != nil {
		return errors.Wrapf(err, "%s schema", req.SchemaName)
	}
	req.Schema = schema

	return r.RunAI(ctx, stepID, func(ctx context.Context) (any, error) {
		content, err := s.completer.Complete(ctx, req)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(content), nil
	}, out)
}
