package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"medreport/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "sessions/abc/medicalData.json", want: "sessions/abc/medicalData.json"},
		{name: "simple prefix", prefix: "root", key: "sessions/abc/medicalData.json", want: "root/sessions/abc/medicalData.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "sessions/abc/medicalData.json", want: "root/sessions/abc/medicalData.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/sessions/abc/medicalData.json", want: "root/sessions/abc/medicalData.json"},
		{name: "nested prefix", prefix: "root/sub", key: "sessions/abc/medicalData.json", want: "root/sub/sessions/abc/medicalData.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStoreRoundTripUsesPrefix(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := newStore(fake, "bucket", "/medreport/", "kms-key")

	n, err := store.SaveWithKey(ctx, "sessions/abc/medicalData.json", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 bytes, got %d", n)
	}
	if _, ok := fake.objects["medreport/sessions/abc/medicalData.json"]; !ok {
		t.Fatalf("expected prefixed key, got %v", fake.objects)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected kms encryption")
	}

	rc, err := store.Open(ctx, "sessions/abc/medicalData.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rc.Close()

	if err := store.Delete(ctx, "sessions/abc/medicalData.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "sessions/abc/medicalData.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
