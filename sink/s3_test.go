package sink_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/sink"
)

type fakeS3Client struct {
	mu    sync.Mutex
	calls []*s3.PutObjectInput
}

func (f *fakeS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestS3Writer_FlushesOnBatchSize(t *testing.T) {
	client := &fakeS3Client{}
	w, err := sink.NewS3WriterWithClient(client, sink.S3Config{Bucket: "b", BatchSize: 2})
	if err != nil {
		t.Fatalf("NewS3WriterWithClient: %v", err)
	}

	s := flow.NewStream()
	_ = s.Sink(sink.ToS3(w))

	for _, x := range []int{1, 2, 3} {
		if err := s.Push(context.Background(), x).Wait(context.Background()); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if got := client.Calls(); got != 1 {
		t.Fatalf("expected 1 automatic flush after 2 of 3 elements, got %d calls", got)
	}

	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := client.Calls(); got != 2 {
		t.Fatalf("expected manual flush of remaining element, got %d calls", got)
	}
}

func TestS3Config_ValidateRequiresBucket(t *testing.T) {
	cfg := sink.S3Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestParseS3Path(t *testing.T) {
	bucket, prefix := sink.ParseS3Path("my-bucket/some/prefix")
	if bucket != "my-bucket" || prefix != "some/prefix" {
		t.Fatalf("got bucket=%q prefix=%q", bucket, prefix)
	}
}
