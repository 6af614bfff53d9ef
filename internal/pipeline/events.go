// Package pipeline contains the processing orchestrator: the main workflow
// that takes an uploaded file through transcription and fans out into
// independent generation jobs, and the retry workflow that re-executes a
// single job. Both are written against the step.Runner contract and carry no
// in-process state between steps; everything lives in the project store.
package pipeline

import (
	"podcastogist/internal/plan"
)

// UploadCompletedEvent triggers the main workflow after a file lands in blob
// storage. Plan defaults to the lowest tier when absent.
type UploadCompletedEvent struct {
	ProjectID string    `json:"projectId" binding:"required"`
	FileURL   string    `json:"fileUrl" binding:"required,url"`
	Plan      plan.Name `json:"plan,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	FileSize  int64     `json:"fileSize,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
}

// RetryJobEvent triggers the retry workflow for one job: a manual retry on a
// failed tab, or a bulk "generate missing features" after a plan upgrade.
type RetryJobEvent struct {
	ProjectID    string    `json:"projectId" binding:"required"`
	Job          plan.Job  `json:"job" binding:"required"`
	OriginalPlan plan.Name `json:"originalPlan,omitempty"`
	CurrentPlan  plan.Name `json:"currentPlan,omitempty"`
}

// ProcessResult is the main workflow outcome. Success=false without an error
// means the project disappeared mid-run, which is tolerated.
type ProcessResult struct {
	Success   bool      `json:"success"`
	ProjectID string    `json:"projectId"`
	Plan      plan.Name `json:"plan"`
}

// RetryResult is the retry workflow outcome.
type RetryResult struct {
	Success bool     `json:"success"`
	Job     plan.Job `json:"job"`
}
