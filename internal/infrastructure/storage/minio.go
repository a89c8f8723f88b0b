package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// ArchiveClient stores pipeline artifacts (raw caption files, transcripts)
// in MinIO for audit. The bucket stays private; nothing here is served to
// end users.
type ArchiveClient struct {
	client *minio.Client
	bucket string
}

// NewArchiveClient creates a MinIO-backed artifact archive
func NewArchiveClient(cfg *config.StorageConfig) (*ArchiveClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &ArchiveClient{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := client.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket if it does not exist yet
func (a *ArchiveClient) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveJobText stores text content under jobs/<job_id>/<name>
func (a *ArchiveClient) ArchiveJobText(ctx context.Context, jobID, name, content string) error {
	objectName := path.Join("jobs", jobID, name)
	reader := bytes.NewReader([]byte(content))
	return a.upload(ctx, objectName, reader, int64(len(content)), "text/plain")
}

// ArchiveJobFile stores arbitrary content under jobs/<job_id>/<name>
func (a *ArchiveClient) ArchiveJobFile(ctx context.Context, jobID, name string, reader io.Reader, size int64, contentType string) error {
	objectName := path.Join("jobs", jobID, name)
	return a.upload(ctx, objectName, reader, size, contentType)
}

func (a *ArchiveClient) upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}

// ListJobArtifacts lists the archived objects for one job
func (a *ArchiveClient) ListJobArtifacts(ctx context.Context, jobID string) ([]string, error) {
	var keys []string

	objectCh := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    path.Join("jobs", jobID) + "/",
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}
