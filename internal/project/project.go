// Package project defines the Project document and the store contract the
// pipeline mutates it through. The project is the only shared mutable state
// between workflow steps; every mutation is field scoped so concurrent
// writers cannot clobber unrelated fields.
package project

import (
	"encoding/json"
	"time"

	"podcastogist/internal/plan"
	"podcastogist/internal/transcript"
)

// Status is the project lifecycle state.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// PhaseStatus tracks one pipeline phase. Progression is monotonic within a
// run: pending → running → completed, never regressing.
type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "running"
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
)

// JobStatus holds the per-phase statuses shown live in the dashboard.
type JobStatus struct {
	Transcription     PhaseStatus `json:"transcription"`
	ContentGeneration PhaseStatus `json:"contentGeneration"`
}

// JobStatusUpdate is a partial JobStatus write; nil fields are left untouched.
type JobStatusUpdate struct {
	Transcription     *PhaseStatus
	ContentGeneration *PhaseStatus
}

// TerminalError records a workflow-fatal failure against the project.
type TerminalError struct {
	Message string `json:"message"`
	Step    string `json:"step"`
	Details string `json:"details,omitempty"`
}

// Project is the document the orchestrator runs against. It is created once
// at upload and mutated exclusively by orchestrator steps.
type Project struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Plan     plan.Name `json:"plan"`
	FileURL  string    `json:"fileUrl"`
	FileName string    `json:"fileName,omitempty"`
	FileSize int64     `json:"fileSize,omitempty"`
	MimeType string    `json:"mimeType,omitempty"`

	Status    Status    `json:"status"`
	JobStatus JobStatus `json:"jobStatus"`

	Transcript *transcript.Transcript `json:"transcript,omitempty"`

	// GeneratedContent holds one artifact per completed job, stored raw so
	// the store stays agnostic of artifact shapes.
	GeneratedContent map[plan.Job]json.RawMessage `json:"generatedContent,omitempty"`

	// JobErrors holds the user-visible message per failed job. A key is
	// removed when a retry for that job succeeds.
	JobErrors map[plan.Job]string `json:"jobErrors,omitempty"`

	Error *TerminalError `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Artifact decodes the stored artifact for job into out. Returns false when
// no artifact is stored for the job.
func (p *Project) Artifact(job plan.Job, out any) (bool, error) {
	raw, ok := p.GeneratedContent[job]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}
