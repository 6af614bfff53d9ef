package project

import (
	"context"

	"podcastogist/internal/plan"
	"podcastogist/internal/transcript"
)

// Update notifies a live subscriber that part of a project changed. Kind
// names the mutated field group (status, jobStatus, transcript, content,
// jobErrors, error).
type Update struct {
	ProjectID string `json:"projectId"`
	Kind      string `json:"kind"`
}

// Store is the document store contract the pipeline is written against. Every
// mutation except Create fails with errors.ErrProjectNotFound when the
// project document is gone, which is how the orchestrator detects a deletion
// that raced the run.
type Store interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Delete(ctx context.Context, id string) error

	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateJobStatus(ctx context.Context, id string, update JobStatusUpdate) error

	SaveTranscript(ctx context.Context, id string, t *transcript.Transcript) error

	// SaveGeneratedContent writes all given artifacts in one atomic
	// multi-field write. Keys absent from the map are left untouched.
	SaveGeneratedContent(ctx context.Context, id string, content map[plan.Job]any) error

	// SaveArtifact overwrites the artifact for a single job key only.
	SaveArtifact(ctx context.Context, id string, job plan.Job, artifact any) error

	// SaveJobErrors merges the given messages into the jobErrors map. Only
	// the given keys are written; previously cleared keys are not
	// resurrected.
	SaveJobErrors(ctx context.Context, id string, jobErrors map[plan.Job]string) error

	// ClearJobError removes a single job key from the jobErrors map.
	ClearJobError(ctx context.Context, id string, job plan.Job) error

	// RecordError marks the project failed with a terminal error.
	RecordError(ctx context.Context, id string, terr TerminalError) error

	CountByUser(ctx context.Context, userID string) (int, error)

	// Subscribe streams update notifications for a project until the
	// context is done. Backed by the store's pub/sub channel.
	Subscribe(ctx context.Context, id string) (<-chan Update, error)
}
