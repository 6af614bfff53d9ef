package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"podcastogist/internal/errors"
)

const defaultAssemblyAIBaseURL = "https://api.assemblyai.com/v2"

// AssemblyAIProvider implements Provider against the AssemblyAI REST API.
type AssemblyAIProvider struct {
	apiKey            string
	baseURL           string
	webhookAuthHeader string
	webhookAuthValue  string
	httpClient        *http.Client
}

// AssemblyAIOption customizes the provider.
type AssemblyAIOption func(*AssemblyAIProvider)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(url string) AssemblyAIOption {
	return func(p *AssemblyAIProvider) { p.baseURL = url }
}

// WithWebhookAuth sets the header AssemblyAI sends back on webhook calls so
// the callback route can authenticate the provider.
func WithWebhookAuth(header, value string) AssemblyAIOption {
	return func(p *AssemblyAIProvider) {
		p.webhookAuthHeader = header
		p.webhookAuthValue = value
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) AssemblyAIOption {
	return func(p *AssemblyAIProvider) { p.httpClient = c }
}

// NewAssemblyAIProvider creates an AssemblyAI-backed provider.
func NewAssemblyAIProvider(apiKey string, opts ...AssemblyAIOption) (*AssemblyAIProvider, error) {
	if apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}
	p := &AssemblyAIProvider{
		apiKey:     apiKey,
		baseURL:    defaultAssemblyAIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type submitRequest struct {
	AudioURL              string `json:"audio_url"`
	SpeakerLabels         bool   `json:"speaker_labels"`
	AutoChapters          bool   `json:"auto_chapters"`
	FormatText            bool   `json:"format_text"`
	WebhookURL            string `json:"webhook_url,omitempty"`
	WebhookAuthHeaderName string `json:"webhook_auth_header_name,omitempty"`
	WebhookAuthHeaderVal  string `json:"webhook_auth_header_value,omitempty"`
}

type submitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Submit queues a transcription job. Diarization, auto-chaptering and text
// formatting are always enabled; diarization output is captured regardless of
// plan, UI access is gated elsewhere.
func (p *AssemblyAIProvider) Submit(ctx context.Context, audioURL, webhookURL string) (string, error) {
	body := submitRequest{
		AudioURL:              audioURL,
		SpeakerLabels:         true,
		AutoChapters:          true,
		FormatText:            true,
		WebhookURL:            webhookURL,
		WebhookAuthHeaderName: p.webhookAuthHeader,
		WebhookAuthHeaderVal:  p.webhookAuthValue,
	}

	var resp submitResponse
	if err := p.do(ctx, http.MethodPost, "/transcript", body, &resp); err != nil {
		return "", errors.Wrap(err, "submit transcription")
	}
	if resp.ID == "" {
		return "", errors.New("provider did not return a transcript ID")
	}
	return resp.ID, nil
}

// Fetch retrieves a transcript by id.
func (p *AssemblyAIProvider) Fetch(ctx context.Context, transcriptID string) (*Result, error) {
	var result Result
	if err := p.do(ctx, http.MethodGet, "/transcript/"+transcriptID, nil, &result); err != nil {
		return nil, errors.Wrap(err, "fetch transcript")
	}
	return &result, nil
}

// do performs one API call with exponential backoff on network errors and
// 5xx responses. 4xx responses are permanent.
func (p *AssemblyAIProvider) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)

	return backoff.Retry(func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", p.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("assemblyai %s %s: status %d", method, path, resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("assemblyai %s %s: status %d: %s", method, path, resp.StatusCode, raw))
		}

		if err := json.Unmarshal(raw, out); err != nil {
			return backoff.Permanent(errors.Wrap(err, "decode provider response"))
		}
		return nil
	}, policy)
}
