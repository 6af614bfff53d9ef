// Package transcription converts raw audio at a URL into the canonical
// transcript shape. The underlying provider is asynchronous: submission
// returns immediately and completion arrives hours later via webhook, relayed
// to the workflow as a durable event.
package transcription

import "context"

// StatusEventName is the event the workflow durably waits for after
// submitting audio. The webhook handler relays the provider callback under
// this name, correlated by project id.
const StatusEventName = "transcription-status"

// StatusEvent is the payload of a transcription status callback.
type StatusEvent struct {
	ProjectID    string `json:"projectId"`
	TranscriptID string `json:"transcriptId"`
	Status       string `json:"status"` // "completed" or "error"
	Error        string `json:"error,omitempty"`
}

// Provider-side transcript shapes. All times are provider milliseconds.

type Word struct {
	Text  string `json:"text"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

type Segment struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
	Words []Word `json:"words"`
}

type Utterance struct {
	Speaker    string  `json:"speaker"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type Chapter struct {
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Gist     string `json:"gist"`
}

// Result is a fetched provider transcript.
type Result struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Error         string      `json:"error,omitempty"`
	Text          string      `json:"text"`
	Segments      []Segment   `json:"segments"`
	Utterances    []Utterance `json:"utterances"`
	Chapters      []Chapter   `json:"chapters"`
	AudioDuration float64     `json:"audio_duration,omitempty"` // seconds
}

// Provider submits audio for asynchronous transcription and fetches finalized
// transcripts. Implementations: the AssemblyAI HTTP client and the
// deterministic fixture provider for mock runs.
type Provider interface {
	// Submit queues a transcription with diarization, auto-chaptering and
	// text formatting enabled, registering webhookURL for the completion
	// callback. Returns the provider transcript id.
	Submit(ctx context.Context, audioURL, webhookURL string) (string, error)

	// Fetch retrieves a finalized transcript by id.
	Fetch(ctx context.Context, transcriptID string) (*Result, error)
}
