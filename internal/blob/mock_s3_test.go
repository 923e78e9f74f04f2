package blob

import (
	"bytes"
	"context"
	"io"
	"sync"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/smithy-go"

	s3sdk "github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3 is a small in-memory stand-in for PutObject/GetObject/DeleteObject
// used in unit tests.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	putCalls    int
	getCalls    int
	deleteCalls int
}

func newMockS3() *mockS3 {
	return &mockS3{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

type noSuchKeyError struct{}

func (noSuchKeyError) Error() string                      { return "NoSuchKey: the key does not exist" }
func (noSuchKeyError) ErrorCode() string                  { return "NoSuchKey" }
func (noSuchKeyError) ErrorMessage() string               { return "the key does not exist" }
func (noSuchKeyError) ErrorFault() smithy.ErrorFault      { return smithy.FaultClient }

func (m *mockS3) PutObject(ctx context.Context, params *s3sdk.PutObjectInput, optFns ...func(*s3sdk.Options)) (*s3sdk.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*params.Key] = data
	if params.ContentType != nil {
		m.types[*params.Key] = *params.ContentType
	}
	return &s3sdk.PutObjectOutput{}, nil
}

func (m *mockS3) GetObject(ctx context.Context, params *s3sdk.GetObjectInput, optFns ...func(*s3sdk.Options)) (*s3sdk.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	data, ok := m.objects[*params.Key]
	if !ok {
		return nil, noSuchKeyError{}
	}
	return &s3sdk.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3sdk.DeleteObjectInput, optFns ...func(*s3sdk.Options)) (*s3sdk.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	delete(m.objects, *params.Key)
	delete(m.types, *params.Key)
	return &s3sdk.DeleteObjectOutput{}, nil
}

// mockPresigner returns a deterministic URL for the requested key.
type mockPresigner struct{}

func (mockPresigner) PresignGetObject(ctx context.Context, params *s3sdk.GetObjectInput, optFns ...func(*s3sdk.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL: "https://example.test/" + *params.Bucket + "/" + *params.Key + "?signed=1",
	}, nil
}
