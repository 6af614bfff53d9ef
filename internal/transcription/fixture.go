package transcription

import (
	"context"
	"sync"
)

// FixtureProvider returns a deterministic transcript without calling any
// external service. Used for mock runs and tests.
type FixtureProvider struct {
	mu        sync.Mutex
	submitted []string

	// Result overrides the canned transcript when set.
	Result *Result
}

// NewFixtureProvider creates a fixture provider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{}
}

// Submit records the submission and returns a synthetic transcript id.
func (p *FixtureProvider) Submit(ctx context.Context, audioURL, webhookURL string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitted = append(p.submitted, audioURL)
	return "fixture-transcript-1", nil
}

// Fetch returns the canned transcript.
func (p *FixtureProvider) Fetch(ctx context.Context, transcriptID string) (*Result, error) {
	if p.Result != nil {
		return p.Result, nil
	}
	return FixtureResult(transcriptID), nil
}

// Submitted returns the audio URLs submitted so far.
func (p *FixtureProvider) Submitted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.submitted))
	copy(out, p.submitted)
	return out
}

// FixtureResult builds a small completed provider transcript with two
// speakers and two chapters.
func FixtureResult(id string) *Result {
	return &Result{
		ID:     id,
		Status: "completed",
		Text:   "Welcome to the show. Today we talk about building durable software pipelines with a small team. Later we get into pricing and what actually moved the needle.",
		Segments: []Segment{
			{
				Start: 0, End: 8000,
				Text: "Welcome to the show. Today we talk about building durable software pipelines with a small team.",
				Words: []Word{
					{Text: "Welcome", Start: 0, End: 420},
					{Text: "to", Start: 420, End: 580},
					{Text: "the", Start: 580, End: 700},
					{Text: "show.", Start: 700, End: 1100},
				},
			},
			{
				Start: 8000, End: 16500,
				Text: "Later we get into pricing and what actually moved the needle.",
				Words: []Word{
					{Text: "Later", Start: 8000, End: 8400},
					{Text: "we", Start: 8400, End: 8550},
				},
			},
		},
		Utterances: []Utterance{
			{Speaker: "A", Start: 0, End: 8000, Text: "Welcome to the show. Today we talk about building durable software pipelines with a small team.", Confidence: 0.97},
			{Speaker: "B", Start: 8000, End: 16500, Text: "Later we get into pricing and what actually moved the needle.", Confidence: 0.94},
		},
		Chapters: []Chapter{
			{Start: 0, End: 8000, Headline: "Introductions and the week's topic", Summary: "The hosts introduce the episode's focus on durable pipelines.", Gist: "Intro"},
			{Start: 8000, End: 16500, Headline: "Pricing experiments", Summary: "What pricing changes actually moved revenue.", Gist: "Pricing"},
		},
		AudioDuration: 16.5,
	}
}
