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
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "resumes/cv.pdf", want: "resumes/cv.pdf"},
		{name: "simple prefix", prefix: "root", key: "resumes/cv.pdf", want: "root/resumes/cv.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/resumes/cv.pdf", want: "root/resumes/cv.pdf"},
		{name: "empty key", prefix: "root", key: "", want: "root"},
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
	put    *s3.PutObjectInput
	body   []byte
	putErr error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestPutUsesPrefixAndEncryption(t *testing.T) {
	fake := &fakeS3{}
	store := newWithClient(fake, "bucket", "/uploads/", "")

	obj, err := store.Put(context.Background(), "cv.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := aws.ToString(fake.put.Key); got != "uploads/"+obj.Key {
		t.Fatalf("unexpected object key %q for %q", got, obj.Key)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption, got %q", fake.put.ServerSideEncryption)
	}
	if aws.ToString(fake.put.ContentType) != "application/pdf" {
		t.Fatalf("unexpected content type %q", aws.ToString(fake.put.ContentType))
	}

	rc, err := store.Open(context.Background(), obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	if string(body) != "%PDF-1.7" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestPutWithKMS(t *testing.T) {
	fake := &fakeS3{}
	store := newWithClient(fake, "bucket", "", "kms-key")
	if _, err := store.Put(context.Background(), "cv.docx", []byte("PK")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.put.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms encryption, got %+v", fake.put)
	}
	if !strings.HasPrefix(aws.ToString(fake.put.Key), "resumes/") {
		t.Fatalf("unexpected key %q", aws.ToString(fake.put.Key))
	}
}

func TestPutWrapsErrors(t *testing.T) {
	store := newWithClient(&fakeS3{putErr: errors.New("denied")}, "bucket", "", "")
	_, err := store.Put(context.Background(), "cv.pdf", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "bucket=bucket") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
