package blob

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	s3sdk "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wnzid/posterscoop-backend/internal/aws"
)

// ErrNotFound indicates the requested object does not exist in the bucket.
var ErrNotFound = errors.New("object not found")

// Store is an S3-backed blob store for uploaded images and custom-order
// files. It is constructed once at process start and injected into the
// stores that need it.
type Store struct {
	client    aws.S3API
	presigner aws.S3Presigner
	bucket    string
	keyFunc   func() string
}

// NewStore returns a Store bound to a bucket.
func NewStore(client aws.S3API, presigner aws.S3Presigner, bucket string) *Store {
	return &Store{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		keyFunc: func() string {
			u := uuid.New()
			return hex.EncodeToString(u[:])
		},
	}
}

// SaveUpload stores an uploaded file under "<prefix>/<random>.<ext>" and
// returns the object key. The extension is taken from the original
// filename, defaulting to jpg.
func (s *Store) SaveUpload(ctx context.Context, body io.Reader, filename, contentType, prefix string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "jpg"
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := fmt.Sprintf("%s/%s.%s", prefix, s.keyFunc(), ext)

	_, err := s.client.PutObject(ctx, &s3sdk.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// Get fetches an object's bytes. Returns ErrNotFound for missing keys.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3sdk.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

// Delete removes an object. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3sdk.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PresignGet returns a presigned GET URL for an object key.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3sdk.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3sdk.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return req.URL, nil
}
