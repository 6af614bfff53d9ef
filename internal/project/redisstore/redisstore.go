// Package redisstore implements project.Store on Redis. Each project is a
// hash plus two side hashes for job errors and generated content, so every
// mutation is a single field-scoped HSET/HDEL guarded by a document existence
// check. This gives the atomic partial-update semantics the pipeline relies
// on: concurrent retries touch disjoint hash fields and never replace whole
// maps.
package redisstore

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/transcript"
)

const (
	fieldID                = "id"
	fieldUserID            = "userId"
	fieldPlan              = "plan"
	fieldFileURL           = "fileUrl"
	fieldFileName          = "fileName"
	fieldFileSize          = "fileSize"
	fieldMimeType          = "mimeType"
	fieldStatus            = "status"
	fieldJobTranscription  = "jobStatus.transcription"
	fieldJobGeneration     = "jobStatus.contentGeneration"
	fieldTranscript        = "transcript"
	fieldError             = "error"
	fieldCreatedAt         = "createdAt"
	fieldUpdatedAt         = "updatedAt"
)

// guardedSet writes field/value pairs into the target hash only while the
// project document still exists. Returns 0 when the document is gone.
var guardedSet = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "updatedAt", ARGV[1])
for i = 2, #ARGV, 2 do
  redis.call("HSET", KEYS[2], ARGV[i], ARGV[i + 1])
end
return 1
`)

// guardedDel removes fields from the target hash under the same guard.
var guardedDel = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "updatedAt", ARGV[1])
for i = 2, #ARGV do
  redis.call("HDEL", KEYS[2], ARGV[i])
end
return 1
`)

// Store implements project.Store on a Redis client.
type Store struct {
	rdb    redis.UniversalClient
	logger *zap.Logger
}

// New creates a Redis-backed project store.
func New(rdb redis.UniversalClient, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

func keyProject(id string) string { return "project:" + id }
func keyErrors(id string) string  { return "project:" + id + ":jobErrors" }
func keyContent(id string) string { return "project:" + id + ":content" }
func keyUser(userID string) string {
	return "user:" + userID + ":projects"
}
func channelUpdates(id string) string { return "project:" + id + ":updates" }

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Create stores a new project document. Status defaults to uploaded and both
// phases to pending when unset.
func (s *Store) Create(ctx context.Context, p *project.Project) (err error) {
	if p.ID == "" {
		return errors.New("project id is required")
	}
	if p.Status == "" {
		p.Status = project.StatusUploaded
	}
	if p.JobStatus.Transcription == "" {
		p.JobStatus.Transcription = project.PhasePending
	}
	if p.JobStatus.ContentGeneration == "" {
		p.JobStatus.ContentGeneration = project.PhasePending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt

	fields := map[string]interface{}{
		fieldID:               p.ID,
		fieldUserID:           p.UserID,
		fieldPlan:             string(plan.Normalize(p.Plan)),
		fieldFileURL:          p.FileURL,
		fieldFileName:         p.FileName,
		fieldFileSize:         strconv.FormatInt(p.FileSize, 10),
		fieldMimeType:         p.MimeType,
		fieldStatus:           string(p.Status),
		fieldJobTranscription: string(p.JobStatus.Transcription),
		fieldJobGeneration:    string(p.JobStatus.ContentGeneration),
		fieldCreatedAt:        p.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt:        p.UpdatedAt.Format(time.RFC3339Nano),
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keyProject(p.ID), fields)
		if p.UserID != "" {
			pipe.SAdd(ctx, keyUser(p.UserID), p.ID)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "create project")
	}

	s.publish(ctx, p.ID, "created")
	return nil
}

// Get loads a project, its job errors and its generated content. Returns
// errors.ErrProjectNotFound for a missing document.
func (s *Store) Get(ctx context.Context, id string) (*project.Project, error) {
	fields, err := s.rdb.HGetAll(ctx, keyProject(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "get project")
	}
	if len(fields) == 0 {
		return nil, errors.ErrProjectNotFound
	}

	p := &project.Project{
		ID:       fields[fieldID],
		UserID:   fields[fieldUserID],
		Plan:     plan.Name(fields[fieldPlan]),
		FileURL:  fields[fieldFileURL],
		FileName: fields[fieldFileName],
		MimeType: fields[fieldMimeType],
		Status:   project.Status(fields[fieldStatus]),
		JobStatus: project.JobStatus{
			Transcription:     project.PhaseStatus(fields[fieldJobTranscription]),
			ContentGeneration: project.PhaseStatus(fields[fieldJobGeneration]),
		},
	}
	if raw := fields[fieldFileSize]; raw != "" {
		p.FileSize, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := fields[fieldCreatedAt]; raw != "" {
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw := fields[fieldUpdatedAt]; raw != "" {
		p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw := fields[fieldTranscript]; raw != "" {
		var t transcript.Transcript
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, errors.Wrap(err, "decode transcript")
		}
		p.Transcript = &t
	}
	if raw := fields[fieldError]; raw != "" {
		var terr project.TerminalError
		if err := json.Unmarshal([]byte(raw), &terr); err != nil {
			return nil, errors.Wrap(err, "decode terminal error")
		}
		p.Error = &terr
	}

	jobErrors, err := s.rdb.HGetAll(ctx, keyErrors(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "get job errors")
	}
	if len(jobErrors) > 0 {
		p.JobErrors = make(map[plan.Job]string, len(jobErrors))
		for job, msg := range jobErrors {
			p.JobErrors[plan.Job(job)] = msg
		}
	}

	content, err := s.rdb.HGetAll(ctx, keyContent(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "get generated content")
	}
	if len(content) > 0 {
		p.GeneratedContent = make(map[plan.Job]json.RawMessage, len(content))
		for job, raw := range content {
			p.GeneratedContent[plan.Job(job)] = json.RawMessage(raw)
		}
	}

	return p, nil
}

// Delete removes the project document and its side hashes. Used by the
// external dashboard collaborator; the pipeline itself never deletes.
func (s *Store) Delete(ctx context.Context, id string) error {
	userID, err := s.rdb.HGet(ctx, keyProject(id), fieldUserID).Result()
	if err != nil && err != redis.Nil {
		return errors.Wrap(err, "delete project")
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyProject(id), keyErrors(id), keyContent(id))
		if userID != "" {
			pipe.SRem(ctx, keyUser(userID), id)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "delete project")
	}

	s.publish(ctx, id, "deleted")
	return nil
}

// UpdateStatus writes the lifecycle status field.
func (s *Store) UpdateStatus(ctx context.Context, id string, status project.Status) error {
	return s.set(ctx, id, keyProject(id), "status", fieldStatus, string(status))
}

// UpdateJobStatus writes the given phase fields only.
func (s *Store) UpdateJobStatus(ctx context.Context, id string, update project.JobStatusUpdate) error {
	pairs := make([]interface{}, 0, 4)
	if update.Transcription != nil {
		pairs = append(pairs, fieldJobTranscription, string(*update.Transcription))
	}
	if update.ContentGeneration != nil {
		pairs = append(pairs, fieldJobGeneration, string(*update.ContentGeneration))
	}
	if len(pairs) == 0 {
		return nil
	}
	return s.set(ctx, id, keyProject(id), "jobStatus", pairs...)
}

// SaveTranscript overwrites the full transcript in one write.
func (s *Store) SaveTranscript(ctx context.Context, id string, t *transcript.Transcript) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "encode transcript")
	}
	return s.set(ctx, id, keyProject(id), "transcript", fieldTranscript, string(raw))
}

// SaveGeneratedContent writes all given artifacts in one atomic multi-field
// write against the content hash.
func (s *Store) SaveGeneratedContent(ctx context.Context, id string, content map[plan.Job]any) error {
	if len(content) == 0 {
		return s.set(ctx, id, keyContent(id), "content")
	}
	pairs := make([]interface{}, 0, len(content)*2)
	for job, artifact := range content {
		raw, err := json.Marshal(artifact)
		if err != nil {
			return errors.Wrapf(err, "encode %s artifact", job)
		}
		pairs = append(pairs, string(job), string(raw))
	}
	return s.set(ctx, id, keyContent(id), "content", pairs...)
}

// SaveArtifact overwrites a single job's artifact.
func (s *Store) SaveArtifact(ctx context.Context, id string, job plan.Job, artifact any) error {
	return s.SaveGeneratedContent(ctx, id, map[plan.Job]any{job: artifact})
}

// SaveJobErrors merges messages into the job errors hash, one field per job.
func (s *Store) SaveJobErrors(ctx context.Context, id string, jobErrors map[plan.Job]string) error {
	if len(jobErrors) == 0 {
		return nil
	}
	pairs := make([]interface{}, 0, len(jobErrors)*2)
	for job, msg := range jobErrors {
		pairs = append(pairs, string(job), msg)
	}
	return s.set(ctx, id, keyErrors(id), "jobErrors", pairs...)
}

// ClearJobError atomically removes one job key from the job errors hash.
func (s *Store) ClearJobError(ctx context.Context, id string, job plan.Job) error {
	res, err := guardedDel.Run(ctx, s.rdb, []string{keyProject(id), keyErrors(id)}, now(), string(job)).Int64()
	if err != nil {
		return errors.Wrap(err, "clear job error")
	}
	if res == 0 {
		return errors.ErrProjectNotFound
	}
	s.publish(ctx, id, "jobErrors")
	return nil
}

// RecordError marks the project failed and stores the terminal error.
func (s *Store) RecordError(ctx context.Context, id string, terr project.TerminalError) error {
	raw, err := json.Marshal(terr)
	if err != nil {
		return errors.Wrap(err, "encode terminal error")
	}
	return s.set(ctx, id, keyProject(id), "error",
		fieldStatus, string(project.StatusFailed),
		fieldError, string(raw),
	)
}

// CountByUser returns the number of projects recorded for a user.
func (s *Store) CountByUser(ctx context.Context, userID string) (int, error) {
	n, err := s.rdb.SCard(ctx, keyUser(userID)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "count user projects")
	}
	return int(n), nil
}

// Subscribe streams update notifications published for a project. The channel
// closes when ctx is done.
func (s *Store) Subscribe(ctx context.Context, id string) (<-chan project.Update, error) {
	sub := s.rdb.Subscribe(ctx, channelUpdates(id))
	// Force the subscription to be established before returning, so callers
	// do not miss updates published right after Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.Wrap(err, "subscribe")
	}

	out := make(chan project.Update)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var u project.Update
				if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
					s.logger.Warn("dropping malformed project update", zap.Error(err))
					continue
				}
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// set runs the guarded multi-field write and publishes an update notification.
func (s *Store) set(ctx context.Context, id, targetKey, kind string, pairs ...interface{}) error {
	args := append([]interface{}{now()}, pairs...)
	res, err := guardedSet.Run(ctx, s.rdb, []string{keyProject(id), targetKey}, args...).Int64()
	if err != nil {
		return errors.Wrapf(err, "update project %s", strings.TrimPrefix(kind, "."))
	}
	if res == 0 {
		return errors.ErrProjectNotFound
	}
	s.publish(ctx, id, kind)
	return nil
}

func (s *Store) publish(ctx context.Context, id, kind string) {
	payload, _ := json.Marshal(project.Update{ProjectID: id, Kind: kind})
	if err := s.rdb.Publish(ctx, channelUpdates(id), payload).Err(); err != nil {
		s.logger.Warn("failed to publish project update",
			zap.String("projectId", id),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
