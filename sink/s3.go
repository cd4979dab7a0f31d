package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tapline-dev/tapline/types"
)

// S3Config configures where and how S3Writer batches and uploads elements.
type S3Config struct {
	// Bucket is the destination bucket (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region overrides the SDK's default region resolution (optional).
	Region string
	// Endpoint overrides the S3 endpoint, for S3-compatible providers.
	Endpoint string
	// UsePathStyle forces path-style addressing, required by most
	// S3-compatible providers.
	UsePathStyle bool
	// BatchSize is how many elements accumulate before an automatic flush.
	// Non-positive means never flush automatically (only on an explicit
	// Flush).
	BatchSize int
}

// Validate checks that required configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("sink: S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a "bucket/prefix" (or bare "bucket") path.
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// s3API is the subset of the S3 client S3Writer depends on, so tests can
// substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer batches pushed elements and uploads each batch as a single
// msgpack-encoded object, once BatchSize elements have accumulated or when
// Flush is called. There is no timer-driven upload.
type S3Writer struct {
	client s3API
	cfg    S3Config

	mu      sync.Mutex
	batch   []types.Element
	batchNo int
}

// NewS3Writer loads AWS configuration from the default credential chain
// and constructs an S3Writer.
func NewS3Writer(ctx context.Context, cfg S3Config) (*S3Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sink: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = &endpoint })
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return &S3Writer{client: s3.NewFromConfig(awsCfg, s3Opts...), cfg: cfg}, nil
}

// NewS3WriterWithClient builds an S3Writer around a caller-supplied client,
// for tests.
func NewS3WriterWithClient(client s3API, cfg S3Config) (*S3Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &S3Writer{client: client, cfg: cfg}, nil
}

// WriteElement buffers x, flushing automatically once the batch reaches
// cfg.BatchSize.
func (w *S3Writer) WriteElement(x types.Element) error {
	w.mu.Lock()
	w.batch = append(w.batch, x)
	shouldFlush := w.cfg.BatchSize > 0 && len(w.batch) >= w.cfg.BatchSize
	w.mu.Unlock()

	if shouldFlush {
		return w.Flush(context.Background())
	}
	return nil
}

// Flush uploads whatever is currently buffered as one object, named by
// batch sequence number and upload time, then clears the buffer.
func (w *S3Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.batch) == 0 {
		w.mu.Unlock()
		return nil
	}
	batch := w.batch
	w.batch = nil
	w.batchNo++
	seq := w.batchNo
	w.mu.Unlock()

	payload, err := msgpack.Marshal(batch)
	if err != nil {
		return fmt.Errorf("sink: marshal S3 batch: %w", err)
	}

	key := fmt.Sprintf("%sbatch-%06d-%d.msgpack", keyPrefix(w.cfg.Prefix), seq, time.Now().UnixNano())
	_, err = w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &w.cfg.Bucket,
		Key:    &key,
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return fmt.Errorf("sink: put object %s: %w", key, err)
	}
	return nil
}

func keyPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, "/") + "/"
}

// ToS3 returns a flow.SinkFunc-compatible function that batches pushed
// elements through w.
func ToS3(w *S3Writer) func(types.Element) error {
	return w.WriteElement
}
