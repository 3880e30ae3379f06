// Package storage archives finished reports in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Vaibhavs10/model-info-extractor/pkg/models"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "model-info-extractor"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client wraps the MinIO/S3 client for report archiving.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	err = c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// reportPrefix builds the object prefix for a report:
// reports/{model}/{timestamp}-{shortid}. Slashes in the model ID are
// flattened so each model stays a single path segment.
func reportPrefix(report *models.Report) string {
	model := strings.ReplaceAll(report.ModelID, "/", "_")
	timestamp := report.GeneratedAt.UTC().Format("2006-01-02T15-04-05")
	shortID := report.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return fmt.Sprintf("reports/%s/%s-%s", model, timestamp, shortID)
}

// PutReport writes a report to S3 as both JSON and rendered markdown.
// Returns the prefix the report was written under.
func (c *Client) PutReport(ctx context.Context, report *models.Report) (string, error) {
	prefix := reportPrefix(report)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.put(ctx, path.Join(prefix, "report.json"), data, "application/json"); err != nil {
		return "", err
	}
	if err := c.put(ctx, path.Join(prefix, "report.md"), []byte(report.Render()), "text/markdown"); err != nil {
		return "", err
	}

	return prefix, nil
}

// put writes a single object.
func (c *Client) put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", objectName, err)
	}
	return nil
}

// GetReport reads a report back from its prefix.
func (c *Client) GetReport(ctx context.Context, prefix string) (*models.Report, error) {
	objectName := path.Join(prefix, "report.json")

	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// ListReportPrefixes returns the prefixes of all reports stored under root.
func (c *Client) ListReportPrefixes(ctx context.Context, root string) ([]string, error) {
	listPrefix := strings.TrimSuffix(root, "/")
	if listPrefix != "" {
		listPrefix += "/"
	}

	var prefixes []string
	objectCh := c.minioClient.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    listPrefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if path.Base(object.Key) == "report.json" {
			prefixes = append(prefixes, path.Dir(object.Key))
		}
	}

	return prefixes, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
