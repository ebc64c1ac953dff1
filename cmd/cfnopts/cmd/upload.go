package cmd

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/options"
	"github.com/runvoy/cfnopts/internal/output"
	"github.com/runvoy/cfnopts/internal/uploader"

	"github.com/spf13/cobra"
)

const samconfigPackageCommand = "package"

var (
	uploadBucket     string
	uploadKey        string
	uploadPrefix     string
	uploadFile       string
	uploadExcludes   []string
	uploadRegion     string
	uploadProfile    string
	uploadConfigFile string
	uploadConfigEnv  string
	uploadMetadata   = options.NewMetadata()
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload an artifact to S3 with decoded object metadata",
	Long: `Upload a file, or a directory packaged as a gzipped tarball, to S3. Object metadata is
given as JSON or as 'Key=Value' pairs.

Values missing from the command line are read from the [env.package.parameters] section of
the samconfig file when it exists (s3_bucket, s3_prefix, metadata).

Examples:
  cfnopts upload --bucket my-artifacts --file template.yaml --metadata '{"team": "platform"}'
  cfnopts upload --bucket my-artifacts --file ./src --prefix builds --metadata Owner=me,Build=42`,
	Args: cobra.NoArgs,
	RunE: uploadRun,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadBucket, "bucket", "", "Destination S3 bucket")
	uploadCmd.Flags().StringVar(&uploadKey, "key", "", "Object key. Generated under --prefix when empty")
	uploadCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Key prefix for generated keys")
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "File or directory to upload")
	uploadCmd.Flags().Var(uploadMetadata, "metadata", "Object metadata as JSON or 'Key=Value' pairs")
	uploadCmd.Flags().StringSliceVar(&uploadExcludes, "exclude", nil,
		"Glob patterns excluded when packaging a directory (repeatable)")
	uploadCmd.Flags().StringVar(&uploadRegion, "region", "", "AWS region. Uses AWS SDK default if not specified")
	uploadCmd.Flags().StringVar(&uploadProfile, "profile", "", "AWS shared config profile")
	uploadCmd.Flags().StringVar(&uploadConfigFile, "config-file", constants.DefaultSamconfigFile,
		"samconfig file holding default values")
	uploadCmd.Flags().StringVar(&uploadConfigEnv, "config-env", constants.DefaultSamconfigEnv,
		"samconfig environment holding default values")
}

func uploadRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}

	defaults, err := loadSamconfigDefaults(
		stringFlagOrDefault(cmd, "config-file", uploadConfigFile, cfg.SamconfigFile),
		stringFlagOrDefault(cmd, "config-env", uploadConfigEnv, cfg.SamconfigEnv),
		samconfigPackageCommand,
		slog.Default(),
	)
	if err != nil {
		return err
	}

	bucket := stringFlagOrDefault(cmd, "bucket", uploadBucket, samconfigString(defaults, "s3_bucket"))
	if bucket == "" {
		return errors.New("a bucket is required (--bucket)")
	}
	if uploadFile == "" {
		return errors.New("a file is required (--file)")
	}

	metadata := uploadMetadata.Value()
	if !cmd.Flags().Changed("metadata") {
		if m, ok := samconfigOption[map[string]string](defaults, "metadata"); ok {
			metadata = m
		}
	}

	u, err := uploader.NewFromConfig(ctx, bucket,
		stringFlagOrDefault(cmd, "region", uploadRegion, samconfigString(defaults, "region"), cfg.Region),
		stringFlagOrDefault(cmd, "profile", uploadProfile, samconfigString(defaults, "profile"), cfg.Profile),
		slog.Default())
	if err != nil {
		return err
	}

	service := NewUploadService(u, NewOutputWrapper())
	return service.Upload(ctx, &uploader.Request{
		Path:     uploadFile,
		Key:      uploadKey,
		Prefix:   stringFlagOrDefault(cmd, "prefix", uploadPrefix, samconfigString(defaults, "s3_prefix")),
		Metadata: metadata,
		Excludes: uploadExcludes,
	})
}

// ArtifactUploader uploads artifacts.
type ArtifactUploader interface {
	Upload(ctx context.Context, req *uploader.Request) (*uploader.Result, error)
}

// UploadService handles upload display logic.
type UploadService struct {
	uploader ArtifactUploader
	output   OutputInterface
}

// NewUploadService creates a new UploadService with the provided dependencies.
func NewUploadService(u ArtifactUploader, outputter OutputInterface) *UploadService {
	return &UploadService{
		uploader: u,
		output:   outputter,
	}
}

// Upload uploads the artifact and reports where it landed.
func (s *UploadService) Upload(ctx context.Context, req *uploader.Request) error {
	s.output.Infof("Uploading %s", s.output.Bold(req.Path))

	result, err := s.uploader.Upload(ctx, req)
	if err != nil {
		return err
	}

	s.output.KeyValue("Location", result.URI())
	s.output.KeyValue("Size", output.Bytes(int64(result.Size)))
	if result.ETag != "" {
		s.output.KeyValue("ETag", result.ETag)
	}
	keys := make([]string, 0, len(req.Metadata))
	for key := range req.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s.output.KeyValue("Metadata "+key, req.Metadata[key])
	}
	s.output.Successf("Upload completed")
	return nil
}
