package testutil

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MinIO root credentials configured on the container.
const (
	MinIOAccessKey = "minioadmin"
	MinIOSecretKey = "minioadmin"
)

// MinIOContainer wraps a MinIO server container for testing.
type MinIOContainer struct {
	container testcontainers.Container
	endpoint  string
}

// NewMinIOContainer creates and starts a MinIO server.
func NewMinIOContainer(ctx context.Context, t *testing.T) (*MinIOContainer, error) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     MinIOAccessKey,
			"MINIO_ROOT_PASSWORD": MinIOSecretKey,
		},
		Cmd: []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").
			WithPort("9000/tcp").
			WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start MinIO container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "9000/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &MinIOContainer{
		container: container,
		endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}

// Endpoint returns host:port of the MinIO server.
func (c *MinIOContainer) Endpoint() string {
	return c.endpoint
}

// Client returns a minio-go client for seeding test data.
func (c *MinIOContainer) Client() (*minio.Client, error) {
	client, err := minio.New(c.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(MinIOAccessKey, MinIOSecretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// Terminate stops and removes the MinIO container.
func (c *MinIOContainer) Terminate(ctx context.Context) error {
	if c.container != nil {
		if err := c.container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// SetupMinIOTest starts MinIO for a test and registers its cleanup.
func SetupMinIOTest(t *testing.T) *MinIOContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := NewMinIOContainer(ctx, t)
	if err != nil {
		t.Fatalf("Failed to create MinIO container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MinIO container: %v", err)
		}
	})

	return container
}

// SeedMinIOBucket creates bucket and uploads objects into it.
func SeedMinIOBucket(ctx context.Context, client *minio.Client, bucket string, objects ...StoredObject) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	for _, obj := range objects {
		_, err := client.PutObject(ctx, bucket, obj.Key, bytes.NewReader(obj.Data), int64(len(obj.Data)),
			minio.PutObjectOptions{ContentType: obj.ContentType})
		if err != nil {
			return fmt.Errorf("failed to put object %q: %w", obj.Key, err)
		}
	}
	return nil
}
