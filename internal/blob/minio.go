// Package blob stores uploaded podcast audio in S3-compatible object storage.
// Browsers upload directly with presigned PUT URLs; the pipeline only ever
// sees the resulting public URL.
package blob

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"podcastogist/internal/errors"
)

const presignExpiry = time.Hour

// Options configures the MinIO-backed store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PresignedUpload is a one-shot direct-upload grant for a single object.
type PresignedUpload struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store wraps a MinIO client scoped to a single bucket.
type Store struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// New connects to MinIO and creates the bucket when it does not exist yet.
func New(ctx context.Context, opts Options) (*Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", opts.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", opts.Bucket)
		}
	}

	return &Store{
		client:   client,
		bucket:   opts.Bucket,
		endpoint: opts.Endpoint,
		useSSL:   opts.UseSSL,
	}, nil
}

// PresignUpload returns a presigned PUT URL for a new object under the
// user's prefix. The key embeds a timestamp and a short random ID so
// repeated uploads of the same filename never collide.
func (s *Store) PresignUpload(ctx context.Context, userID, filename string) (*PresignedUpload, error) {
	key := objectKey(userID, filename)

	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, presignExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "presign upload")
	}

	return &PresignedUpload{
		URL:       u.String(),
		Method:    "PUT",
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

// PresignDownload returns a temporary GET URL for an existing object.
func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "presign download")
	}
	return u.String(), nil
}

// KeyForURL maps a public object URL back to its key. Returns false for
// URLs outside this store's bucket, such as externally hosted files.
func (s *Store) KeyForURL(fileURL string) (string, bool) {
	u, err := url.Parse(fileURL)
	if err != nil || u.Host != s.endpoint {
		return "", false
	}
	key, ok := strings.CutPrefix(u.Path, "/"+s.bucket+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// PublicURL returns the stable URL for an object key.
func (s *Store) PublicURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}

// Delete removes an uploaded object.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}

func objectKey(userID, filename string) string {
	return fmt.Sprintf("podcasts/%s/%d-%s%s",
		userID, time.Now().Unix(), uuid.New().String()[:8], filepath.Ext(filename))
}
