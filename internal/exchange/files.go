package exchange

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/JonMunkholm/contacts/internal/core"
)

// Re-exported so callers of this package can match file errors without
// importing core.
var (
	ErrFileNotFound = core.ErrFileNotFound
	ErrWriteFailure = core.ErrWriteFailure
)

// FileSystem reads and writes whole exchange files.
//
// ReadFile fails with an error matching ErrFileNotFound when the path is
// missing or unreadable. WriteFile replaces any existing content and fails
// with an error matching ErrWriteFailure.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}

// S3Scheme prefixes paths that name S3 objects.
const S3Scheme = "s3://"

// Files routes s3:// paths to S3 and everything else to the local disk.
type Files struct {
	Local FileSystem
	S3    FileSystem
}

// NewFiles returns the default router. The S3 client is created on first
// use, so local-only sessions never load AWS configuration.
func NewFiles(s3Region string) *Files {
	return &Files{
		Local: LocalFS{},
		S3:    NewS3FS(s3Region),
	}
}

func (f *Files) pick(path string) FileSystem {
	if strings.HasPrefix(path, S3Scheme) {
		return f.S3
	}
	return f.Local
}

func (f *Files) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return f.pick(path).ReadFile(ctx, path)
}

func (f *Files) WriteFile(ctx context.Context, path string, data []byte) error {
	return f.pick(path).WriteFile(ctx, path, data)
}

// LocalFS reads and writes files on the local disk.
type LocalFS struct{}

func (LocalFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, ErrFileNotFound, err)
	}
	return data, nil
}

func (LocalFS) WriteFile(_ context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %w", path, ErrWriteFailure, err)
	}
	return nil
}

// S3API is the subset of *s3.Client used by S3FS.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3FS reads and writes objects addressed as s3://bucket/key.
type S3FS struct {
	region string

	once   sync.Once
	client S3API
	err    error
}

// NewS3FS returns an S3FS that loads the default AWS configuration on
// first use. A non-empty region overrides the configured one.
func NewS3FS(region string) *S3FS {
	return &S3FS{region: region}
}

// NewS3FSWithClient returns an S3FS that uses client directly.
func NewS3FSWithClient(client S3API) *S3FS {
	s := &S3FS{client: client}
	s.once.Do(func() {})
	return s
}

func (s *S3FS) getClient(ctx context.Context) (S3API, error) {
	s.once.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if s.region != "" {
			opts = append(opts, awsconfig.WithRegion(s.region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			s.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		s.client = s3.NewFromConfig(cfg)
	})
	return s.client, s.err
}

func (s *S3FS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, ErrFileNotFound, err)
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, ErrFileNotFound, err)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("read %s: %w", path, ErrFileNotFound)
		}
		return nil, fmt.Errorf("read %s: %w: %w", path, ErrFileNotFound, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, ErrFileNotFound, err)
	}
	return data, nil
}

func (s *S3FS) WriteFile(ctx context.Context, path string, data []byte) error {
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return fmt.Errorf("write %s: %w: %w", path, ErrWriteFailure, err)
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return fmt.Errorf("write %s: %w: %w", path, ErrWriteFailure, err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String("text/csv; charset=utf-8"),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("write %s: %w: %w", path, ErrWriteFailure, err)
	}
	return nil
}

// ParseS3Path splits s3://bucket/key into its parts.
func ParseS3Path(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, S3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %q", path)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 path needs bucket and key: %q", path)
	}
	return bucket, key, nil
}
