// Package transcript defines the canonical transcript shape produced by the
// transcription adapter and consumed by every generation job. A transcript is
// immutable once produced; retries read it back from the store instead of
// re-transcribing.
package transcript

import "unicode/utf8"

// Word is a single time-aligned word within a segment. Times are provider
// milliseconds.
type Word struct {
	Word  string `json:"word"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// Segment is a contiguous stretch of formatted text with word-level timing.
// Times are provider milliseconds.
type Segment struct {
	ID    int    `json:"id"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
	Words []Word `json:"words"`
}

// Utterance is one speaker turn. Start/End are seconds; diarization output is
// always captured regardless of plan, UI access is gated elsewhere.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Chapter is a provider-detected topic segment. Times are provider
// milliseconds, converted to seconds at the point of use.
type Chapter struct {
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Gist     string `json:"gist"`
}

// Transcript is the canonical transcript. All four collections cross-reference
// the same source timeline and are written in one overwrite per successful
// transcription, never patched.
type Transcript struct {
	Text          string      `json:"text"`
	Segments      []Segment   `json:"segments"`
	Speakers      []Utterance `json:"speakers"`
	Chapters      []Chapter   `json:"chapters"`
	AudioDuration float64     `json:"audioDuration,omitempty"` // seconds
}

// HasText reports whether the transcript carries usable text.
func (t *Transcript) HasText() bool {
	return t != nil && t.Text != ""
}

// HasChapters reports whether the provider detected any chapters.
func (t *Transcript) HasChapters() bool {
	return t != nil && len(t.Chapters) > 0
}

// Excerpt returns at most n leading bytes of the transcript text, trimmed
// back to a rune boundary so the result stays valid UTF-8. Used to bound
// prompt size.
func (t *Transcript) Excerpt(n int) string {
	if len(t.Text) <= n {
		return t.Text
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(t.Text[cut]) {
		cut--
	}
	return t.Text[:cut]
}
