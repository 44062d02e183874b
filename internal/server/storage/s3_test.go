package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dsmirnov/drivebox/internal/common"
)

// fakeS3 records the inputs of the last call and returns canned results.
type fakeS3 struct {
	putInput    *s3.PutObjectInput
	putErr      error
	getOut      *s3.GetObjectOutput
	getErr      error
	delInput    *s3.DeleteObjectInput
	delErr      error
	headErr     error
	createCalls int
	createErr   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delInput = params
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &s3.CreateBucketOutput{}, nil
}

func TestS3Store_Put_PassesKeySizeAndContentType(t *testing.T) {
	t.Parallel()

	client := &fakeS3{}
	store := NewS3Store(client, "uploads")

	err := store.Put(context.Background(), "abc123", strings.NewReader("hi"), 2, "text/plain")
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}

	in := client.putInput
	if in == nil {
		t.Fatalf("PutObject was not called")
	}
	if *in.Bucket != "uploads" || *in.Key != "abc123" {
		t.Fatalf("unexpected bucket/key: %s/%s", *in.Bucket, *in.Key)
	}
	if *in.ContentLength != 2 {
		t.Fatalf("unexpected content length: %d", *in.ContentLength)
	}
	if *in.ContentType != "text/plain" {
		t.Fatalf("unexpected content type: %s", *in.ContentType)
	}
}

func TestS3Store_Get_StreamsBody(t *testing.T) {
	t.Parallel()

	client := &fakeS3{
		getOut: &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("payload")))},
	}
	store := NewS3Store(client, "uploads")

	rc, err := store.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(b) != "payload" {
		t.Fatalf("unexpected body: %q", b)
	}
}

func TestS3Store_Get_MissingKeyIsNotFound(t *testing.T) {
	t.Parallel()

	client := &fakeS3{getErr: &types.NoSuchKey{}}
	store := NewS3Store(client, "uploads")

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestS3Store_Get_TimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	client := &fakeS3{getErr: context.DeadlineExceeded}
	store := NewS3Store(client, "uploads")

	_, err := store.Get(context.Background(), "slow")
	if !errors.Is(err, common.ErrUnavailable) {
		t.Fatalf("expected common.ErrUnavailable, got %v", err)
	}
}

func TestS3Store_Get_ThrottlingIsUnavailable(t *testing.T) {
	t.Parallel()

	client := &fakeS3{getErr: &smithy.GenericAPIError{Code: "SlowDown"}}
	store := NewS3Store(client, "uploads")

	_, err := store.Get(context.Background(), "busy")
	if !errors.Is(err, common.ErrUnavailable) {
		t.Fatalf("expected common.ErrUnavailable, got %v", err)
	}
}

func TestS3Store_Delete_PassesKey(t *testing.T) {
	t.Parallel()

	client := &fakeS3{}
	store := NewS3Store(client, "uploads")

	if err := store.Delete(context.Background(), "abc123"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if client.delInput == nil || *client.delInput.Key != "abc123" {
		t.Fatalf("DeleteObject not called with expected key")
	}
}

func TestS3Store_EnsureBucket_CreatesWhenMissing(t *testing.T) {
	t.Parallel()

	client := &fakeS3{headErr: &types.NotFound{}}
	store := NewS3Store(client, "uploads")

	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket error: %v", err)
	}
	if client.createCalls != 1 {
		t.Fatalf("expected CreateBucket to be called once, got %d", client.createCalls)
	}
}

func TestS3Store_EnsureBucket_NoopWhenPresent(t *testing.T) {
	t.Parallel()

	client := &fakeS3{}
	store := NewS3Store(client, "uploads")

	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket error: %v", err)
	}
	if client.createCalls != 0 {
		t.Fatalf("expected no CreateBucket call, got %d", client.createCalls)
	}
}
