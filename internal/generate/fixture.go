package generate

import (
	"context"
	"encoding/json"
)

// FixtureCompleter returns deterministic canned artifacts keyed by schema
// name. Selected once at process start for mock runs and tests, so no
// per-call mock branching leaks into the generation jobs.
type FixtureCompleter struct {
	// Fail lists schema names whose completions should fail, for exercising
	// partial-failure paths in tests.
	Fail map[string]error
}

// NewFixtureCompleter creates a fixture completer.
func NewFixtureCompleter() *FixtureCompleter {
	return &FixtureCompleter{}
}

var fixtures = map[string]any{
	"recaps": Recaps{
		Full:     "A wide-ranging conversation about building durable software products, covering how small teams ship reliable systems, why observability matters from day one, and what founders get wrong about scaling.",
		Bullets:  []string{"Why durable workflows beat cron jobs", "Shipping with a team of three", "Observability before optimization", "Pricing experiments that worked"},
		Insights: []string{"Instrument the pipeline before tuning it", "Charge for outcomes, not features", "Retry budgets belong in the platform"},
		TLDR:     "Small teams ship reliable systems by leaning on durable infrastructure instead of heroics.",
	},
	"social_posts": SocialPosts{
		Twitter:   "Durable workflows > cron jobs. New episode on shipping reliable systems with a team of three.",
		LinkedIn:  "This week we unpack how small teams ship reliable software: durable workflows, observability from day one, and pricing experiments that actually worked.",
		Instagram: "New episode! How three people run a production pipeline that never loses work.",
		TikTok:    "POV: your pipeline survives a deploy mid-transcription. Here's how.",
		YouTube:   "Full conversation on durable workflows, observability, and small-team shipping now live.",
		Facebook:  "We sat down to talk about building reliable systems without a platform team. Listen now.",
	},
	"titles": Titles{
		Titles:      []string{"Durable by Default: Shipping Reliable Systems with Three People", "Why Your Pipeline Needs a Retry Budget", "Observability First: A Founder's Guide"},
		SEOKeywords: []string{"durable workflows", "observability", "small team engineering", "podcast pipeline"},
	},
	"hashtags": Hashtags{
		Trending: []string{"#buildinpublic", "#devtools"},
		Niche:    []string{"#durableexecution", "#podcastops"},
		Broad:    []string{"#engineering", "#startup", "#podcast"},
	},
	"youtube_chapter_titles": map[string]any{
		"titles": []string{"Cold open and introductions", "Why durable workflows matter", "Scaling a three-person team"},
	},
}

// Complete returns the fixture payload for the request schema.
func (c *FixtureCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err, ok := c.Fail[req.SchemaName]; ok {
		return "", err
	}
	fixture, ok := fixtures[req.SchemaName]
	if !ok {
		fixture = fixtures["recaps"]
	}
	raw, err := json.Marshal(fixture)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
