// Package uploader uploads build artifacts to S3 with decoded object metadata.
package uploader

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/runvoy/cfnopts/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	archiveContentType = "application/gzip"
	defaultKeyPrefix   = "artifacts"
)

var defaultExcludes = []string{
	".git",
	".aws-sam",
	"node_modules",
	"__pycache__",
	"*.pyc",
	".DS_Store",
}

// S3Client defines the S3 operations the uploader needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader puts files and packaged directories into a bucket.
type Uploader struct {
	client S3Client
	bucket string
	logger *slog.Logger
}

// Request describes one upload.
type Request struct {
	// Path is a file, uploaded as is, or a directory, uploaded as a gzipped tarball.
	Path string
	// Key is the object key. Empty keys are generated under Prefix.
	Key      string
	Prefix   string
	Metadata map[string]string
	// Excludes are glob patterns matched against every path element of directory entries.
	Excludes []string
}

// Result describes an uploaded object.
type Result struct {
	Bucket string
	Key    string
	Size   int
	ETag   string
}

// URI returns the s3:// location of the object.
func (r *Result) URI() string {
	return "s3://" + r.Bucket + "/" + r.Key
}

// New creates an uploader.
func New(client S3Client, bucket string, log *slog.Logger) *Uploader {
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		logger: log,
	}
}

// NewFromConfig creates an uploader backed by the default AWS configuration.
func NewFromConfig(ctx context.Context, bucket, region, profile string, log *slog.Logger) (*Uploader, error) {
	var awsOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		awsOpts = append(awsOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return New(s3.NewFromConfig(awsCfg), bucket, log), nil
}

// GenerateArtifactID creates a unique, time ordered artifact ID.
func GenerateArtifactID() string {
	now := time.Now().UTC()
	return now.Format("20060102-150405-") + fmt.Sprintf("%06d", now.Nanosecond()/1000)
}

// ObjectKey returns the key for an artifact when none is given.
func ObjectKey(prefix, name, artifactID string, archive bool) string {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if archive {
		name += ".tar.gz"
	}
	return path.Join(prefix, artifactID, name)
}

// Upload uploads the file or directory named by req.Path.
func (u *Uploader) Upload(ctx context.Context, req *Request) (*Result, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", req.Path, err)
	}

	var (
		body        []byte
		contentType string
	)
	if info.IsDir() {
		body, err = createTarball(req.Path, slices.Concat(defaultExcludes, req.Excludes))
		if err != nil {
			return nil, fmt.Errorf("failed to create tarball: %w", err)
		}
		contentType = archiveContentType
	} else {
		body, err = os.ReadFile(req.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
		}
	}

	key := req.Key
	if key == "" {
		name := filepath.Base(filepath.Clean(req.Path))
		key = ObjectKey(req.Prefix, name, GenerateArtifactID(), info.IsDir())
	}

	input := &s3.PutObjectInput{
		Bucket:   aws.String(u.bucket),
		Key:      aws.String(key),
		Body:     bytes.NewReader(body),
		Metadata: req.Metadata,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	logArgs := []any{
		"operation", "S3.PutObject",
		"bucket", u.bucket,
		"key", key,
		"size", len(body),
		"metadata", req.Metadata,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	u.logger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := u.client.PutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &Result{
		Bucket: u.bucket,
		Key:    key,
		Size:   len(body),
		ETag:   strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

func createTarball(sourceDir string, excludes []string) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	absPath, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(absPath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(absPath, p)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if shouldExclude(relPath, excludes) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			file, err := os.Open(p)
			if err != nil {
				return err
			}
			defer file.Close()

			if _, err := io.Copy(tarWriter, file); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := tarWriter.Close(); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// shouldExclude reports whether any element of relPath matches one of the patterns.
func shouldExclude(relPath string, patterns []string) bool {
	for _, elem := range strings.Split(filepath.ToSlash(relPath), "/") {
		for _, pattern := range patterns {
			if ok, _ := path.Match(pattern, elem); ok {
				return true
			}
		}
	}
	return false
}
