package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	delErr       error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte), contentTypes: make(map[string]string)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	m.contentTypes[*input.Key] = *input.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.delErr != nil {
		return nil, m.delErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestS3Storage(client s3Client) *S3Storage {
	return &S3Storage{
		cfg:    S3Config{Endpoint: "http://minio:9000/", Bucket: "receipts", Region: "us-east-1"},
		client: client,
	}
}

func TestS3Storage_SaveAndDelete(t *testing.T) {
	mock := newMockS3()
	s := newTestS3Storage(mock)
	ctx := context.Background()

	if err := s.Save(ctx, "uploads/record/a.png", "image/png", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if string(mock.objects["uploads/record/a.png"]) != "png-bytes" {
		t.Errorf("unexpected object body %q", mock.objects["uploads/record/a.png"])
	}
	if mock.contentTypes["uploads/record/a.png"] != "image/png" {
		t.Errorf("unexpected content type %q", mock.contentTypes["uploads/record/a.png"])
	}

	if err := s.Delete(ctx, "uploads/record/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := mock.objects["uploads/record/a.png"]; ok {
		t.Error("expected object to be deleted")
	}
}

func TestS3Storage_Errors(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("access denied")
	mock.delErr = errors.New("access denied")
	s := newTestS3Storage(mock)

	if err := s.Save(context.Background(), "k", "image/png", strings.NewReader("x")); err == nil {
		t.Error("expected Save to fail")
	}
	if err := s.Delete(context.Background(), "k"); err == nil {
		t.Error("expected Delete to fail")
	}
}

func TestS3Storage_URL(t *testing.T) {
	s := newTestS3Storage(newMockS3())
	if got := s.URL("uploads/record/a.png"); got != "http://minio:9000/receipts/uploads/record/a.png" {
		t.Errorf("unexpected URL %s", got)
	}

	aws := &S3Storage{cfg: S3Config{Bucket: "receipts", Region: "eu-west-1"}}
	if got := aws.URL("k.png"); got != "https://s3.eu-west-1.amazonaws.com/receipts/k.png" {
		t.Errorf("unexpected URL %s", got)
	}
}
