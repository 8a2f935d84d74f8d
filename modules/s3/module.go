package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Client performs presigned URL transfers. Defaults to http.DefaultClient.
	Client *http.Client
}

// Input defines the arguments for the s3 handler.
//
// The "upload" and "download" actions transfer a file through a presigned
// URL. The "put_object" and "get_object" actions talk to the bucket directly
// using the endpoint and static credentials.
type Input struct {
	Action     string `cty:"action"`
	SourcePath string `cty:"source_path"`
	DestPath   string `cty:"dest_path"`
	UploadURL  string `cty:"upload_url"`
	URL        string `cty:"url"`

	Endpoint  string `cty:"endpoint"`
	Region    string `cty:"region"`
	AccessKey string `cty:"access_key"`
	SecretKey string `cty:"secret_key"`
	UseSSL    bool   `cty:"use_ssl"`
	Bucket    string `cty:"bucket"`
	Key       string `cty:"key"`
}

// Register registers the 's3' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("s3", m.OnRunS3)
}

// OnRunS3 dispatches on the action argument.
func (m *Module) OnRunS3(ctx context.Context, in handlers.Input) (any, error) {
	input := Input{Region: "us-east-1", UseSSL: true}
	if err := handlers.DecodeArgs(in.Args, &input); err != nil {
		return nil, err
	}

	switch strings.ToLower(input.Action) {
	case "upload":
		return m.handleUpload(ctx, &input)
	case "download":
		return m.handleDownload(ctx, &input)
	case "put_object":
		return handlePutObject(ctx, &input)
	case "get_object":
		return handleGetObject(ctx, &input)
	default:
		return nil, fmt.Errorf("unknown s3 action: '%s'", input.Action)
	}
}

func (m *Module) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return http.DefaultClient
}

func contentTypeOf(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// handleUpload contains the logic for uploading a file to a pre-signed URL.
func (m *Module) handleUpload(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(input.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", input.SourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", input.SourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, input.UploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 upload request: %w", err)
	}

	contentType := contentTypeOf(input.SourcePath)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3", "source", input.SourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := m.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded file", "status", resp.Status)
	return map[string]any{"success": true, "status": resp.Status}, nil
}

// handleDownload fetches a pre-signed URL into DestPath.
func (m *Module) handleDownload(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx).With("action", "download")
	if input.DestPath == "" {
		return nil, fmt.Errorf("argument 'dest_path' is required for download")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 download request: %w", err)
	}
	resp, err := m.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("S3 download failed with status: %s", resp.Status)
	}

	file, err := os.Create(input.DestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file '%s': %w", input.DestPath, err)
	}
	defer file.Close()

	n, err := io.Copy(file, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to write destination file '%s': %w", input.DestPath, err)
	}

	logger.Info("Successfully downloaded file", "dest", input.DestPath, "size", n)
	return map[string]any{"success": true, "size": n}, nil
}

func newMinioClient(input *Input) (*minio.Client, error) {
	if input.Endpoint == "" || input.Bucket == "" || input.Key == "" {
		return nil, fmt.Errorf("arguments 'endpoint', 'bucket' and 'key' are required for %s", input.Action)
	}
	client, err := minio.New(input.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(input.AccessKey, input.SecretKey, ""),
		Secure: input.UseSSL,
		Region: input.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return client, nil
}

// handlePutObject uploads SourcePath to Bucket/Key.
func handlePutObject(ctx context.Context, input *Input) (any, error) {
	client, err := newMinioClient(input)
	if err != nil {
		return nil, err
	}

	info, err := client.FPutObject(ctx, input.Bucket, input.Key, input.SourcePath, minio.PutObjectOptions{
		ContentType: contentTypeOf(input.SourcePath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object %s/%s: %w", input.Bucket, input.Key, err)
	}

	ctxlog.FromContext(ctx).Info("Object stored", "bucket", input.Bucket, "key", input.Key, "size", info.Size)
	return map[string]any{"success": true, "etag": info.ETag, "size": info.Size}, nil
}

// handleGetObject downloads Bucket/Key into DestPath.
func handleGetObject(ctx context.Context, input *Input) (any, error) {
	if input.DestPath == "" {
		return nil, fmt.Errorf("argument 'dest_path' is required for get_object")
	}
	client, err := newMinioClient(input)
	if err != nil {
		return nil, err
	}

	if err := client.FGetObject(ctx, input.Bucket, input.Key, input.DestPath, minio.GetObjectOptions{}); err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", input.Bucket, input.Key, err)
	}

	ctxlog.FromContext(ctx).Info("Object fetched", "bucket", input.Bucket, "key", input.Key, "dest", input.DestPath)
	return map[string]any{"success": true}, nil
}
