package generate

import (
	"fmt"
	"strings"

	"podcastogist/internal/transcript"
)

// promptExcerptChars bounds how much transcript text goes into a prompt,
// balancing context quality against token cost.
const promptExcerptChars = 3000

const recapsSystemPrompt = "You are an expert podcast content analyst and marketing strategist. Your summaries are engaging, insightful, and highlight the most valuable takeaways for listeners."

const socialPostsSystemPrompt = "You are a social media strategist for podcast creators. You write platform-native copy that hooks readers in the first line and drives listens."

const titlesSystemPrompt = "You are a podcast growth expert. You craft scroll-stopping, SEO-friendly episode titles that accurately reflect the content."

const hashtagsSystemPrompt = "You are a social media discoverability expert. You build hashtag strategies that balance trending reach with niche relevance."

const youtubeTimestampsSystemPrompt = "You are a YouTube content editor. You write short, specific chapter titles that help viewers navigate long-form episodes."

func chapterOutline(t *transcript.Transcript) string {
	if !t.HasChapters() {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nAUTO-DETECTED CHAPTERS:\n")
	for i, ch := range t.Chapters {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, ch.Headline, ch.Summary)
	}
	return b.String()
}

func buildRecapsPrompt(t *transcript.Transcript) string {
	return fmt.Sprintf(`Analyze this podcast transcript in detail and create a comprehensive recaps package.

TRANSCRIPT (first %d chars):
%s...
%s
Create a recaps package with:

1. FULL OVERVIEW (200-300 words):
   - What is this podcast about?
   - Who is speaking and what's their perspective?
   - What are the main themes and arguments?
   - Why should someone listen to this?

2. KEY BULLET POINTS (5-7 items):
   - Main topics discussed in order
   - Important facts or statistics mentioned
   - Key arguments or positions taken
   - Notable quotes or moments

3. ACTIONABLE INSIGHTS (3-5 items):
   - What can listeners learn or apply?
   - Key takeaways that provide value
   - Practical advice or recommendations

4. TL;DR (one compelling sentence):
   - Capture the essence and hook interest
   - Make someone want to listen

Be specific, engaging, and valuable. Focus on what makes this podcast unique and worth listening to.`,
		promptExcerptChars, t.Excerpt(promptExcerptChars), chapterOutline(t))
}

func buildSocialPostsPrompt(t *transcript.Transcript) string {
	return fmt.Sprintf(`Write one ready-to-publish promotional post per platform for this podcast episode.

TRANSCRIPT (first %d chars):
%s...
%s
Requirements per platform:
- twitter: under 280 characters, punchy, one hook
- linkedin: 2-3 short paragraphs, professional tone, ends with a question
- instagram: casual, emoji-friendly, line breaks for readability
- tiktok: very short, trend-aware hook
- youtube: community-post style announcement
- facebook: conversational, 1-2 paragraphs

Every post must reference a concrete moment or claim from the episode, never generic filler.`,
		promptExcerptChars, t.Excerpt(promptExcerptChars), chapterOutline(t))
}

func buildTitlesPrompt(t *transcript.Transcript) string {
	return fmt.Sprintf(`Create episode title options for this podcast.

TRANSCRIPT (first %d chars):
%s...
%s
Produce:
- titles: 5 title candidates, each under 70 characters, specific to the content, no clickbait that the episode cannot deliver on
- seoKeywords: 5-10 search keywords and phrases listeners would actually type

Vary the angle across candidates: one curiosity-driven, one benefit-driven, one guest/topic-led.`,
		promptExcerptChars, t.Excerpt(promptExcerptChars), chapterOutline(t))
}

func buildHashtagsPrompt(t *transcript.Transcript) string {
	return fmt.Sprintf(`Build a hashtag strategy for promoting this podcast episode.

TRANSCRIPT (first %d chars):
%s...
%s
Produce three groups:
- trending: 2-4 currently popular tags that genuinely fit the content
- niche: 3-5 tags specific to the episode's topic community
- broad: 3-5 evergreen high-volume tags

All tags lowercase, each starting with #, no spaces.`,
		promptExcerptChars, t.Excerpt(promptExcerptChars), chapterOutline(t))
}

func buildYouTubeTimestampsPrompt(t *transcript.Transcript) string {
	var b strings.Builder
	for i, ch := range t.Chapters {
		fmt.Fprintf(&b, "%d. [%s] headline: %s | gist: %s\n",
			i+1, transcript.FormatTimestamp(float64(ch.Start)/1000, true), ch.Headline, ch.Gist)
	}
	return fmt.Sprintf(`Rewrite these auto-detected podcast chapters as YouTube chapter titles.

CHAPTERS:
%s
Produce titles: exactly %d titles, in the same order as the chapters. Each title must be under 60 characters, specific, and written for viewers scanning a video description. Do not include timestamps in the titles.`,
		b.String(), len(t.Chapters))
}
