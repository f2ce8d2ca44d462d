package download

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

// dirPerm is applied to directories created for nested keys.
const dirPerm = 0o755

// Downloader fetches objects through a provider and writes them to a filesystem.
type Downloader struct {
	client provider.Provider
	fs     fs.Filesystem
}

// New creates a new Downloader instance.
func New(client provider.Provider, filesystem fs.Filesystem) *Downloader {
	return &Downloader{
		client: client,
		fs:     filesystem,
	}
}

// Config holds per-download settings.
type Config struct {
	ProgressTracker collectortypes.ProgressTracker
	// CreateDirs creates missing parent directories of the local path.
	CreateDirs bool
}

// LocalPath joins a destination and an object key with a single slash.
// The key is used verbatim, so keys containing "/" land in subdirectories.
func LocalPath(destination, key string) string {
	return destination + "/" + key
}

// DownloadFile downloads an object to localPath on the filesystem.
// The file is created or truncated. A file left incomplete by a failed copy
// is removed.
func (d *Downloader) DownloadFile(
	ctx context.Context,
	bucket, key, localPath string,
	config *Config,
) (*collectortypes.ObjectDownload, error) {
	startTime := time.Now()

	obj, err := d.client.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, d.fail(config, fmt.Errorf("get object: %w", err))
	}
	defer obj.Body.Close()

	if err := d.ensureParent(localPath, config.CreateDirs); err != nil {
		return nil, d.fail(config, err)
	}

	file, err := d.fs.Create(localPath)
	if err != nil {
		return nil, d.fail(config, fmt.Errorf("create %q: %w", localPath, err))
	}

	result, err := d.copy(obj, key, file, config, startTime)
	closeErr := file.Close()
	if err == nil && closeErr != nil {
		err = d.fail(config, fmt.Errorf("close %q: %w", localPath, closeErr))
	}
	if err != nil {
		_ = d.fs.Remove(localPath)
		return nil, err
	}

	result.Path = localPath
	return result, nil
}

func (d *Downloader) ensureParent(localPath string, create bool) error {
	parent := filepath.Dir(localPath)
	if parent == "." || parent == "/" {
		return nil
	}

	exists, err := d.fs.Exists(parent)
	if err != nil {
		return fmt.Errorf("stat %q: %w", parent, err)
	}
	if exists {
		return nil
	}

	if !create {
		return fmt.Errorf("%w: %s", errors.ErrDestinationMissing, parent)
	}
	if err := d.fs.MkdirAll(parent, dirPerm); err != nil {
		return fmt.Errorf("mkdir %q: %w", parent, err)
	}
	return nil
}

func (d *Downloader) copy(
	obj *provider.Object,
	key string,
	writer io.Writer,
	config *Config,
	startTime time.Time,
) (*collectortypes.ObjectDownload, error) {
	size := obj.Size

	var reader io.Reader = obj.Body
	if config.ProgressTracker != nil {
		reader = &progressReader{
			reader:          obj.Body,
			progressTracker: config.ProgressTracker,
			total:           size,
		}
	}

	head := &headWriter{}
	buf := pool.GetBuffer(int(size))
	defer pool.PutBuffer(buf)

	bytesWritten, err := io.CopyBuffer(io.MultiWriter(writer, head), reader, buf)
	if err != nil {
		return nil, d.fail(config, fmt.Errorf("write %q: %w", key, err))
	}

	if size == 0 {
		size = bytesWritten
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(bytesWritten, size)
		config.ProgressTracker.Complete()
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = DetectContentType(key, head.bytes())
	}

	return &collectortypes.ObjectDownload{
		Key:         key,
		Size:        bytesWritten,
		ContentType: contentType,
		ETag:        obj.ETag,
		Duration:    time.Since(startTime),
	}, nil
}

func (d *Downloader) fail(config *Config, err error) error {
	if config.ProgressTracker != nil {
		config.ProgressTracker.Error(err)
	}
	return err
}

// progressReader wraps an io.Reader to track progress
type progressReader struct {
	reader          io.Reader
	progressTracker collectortypes.ProgressTracker
	total           int64
	bytesRead       int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.bytesRead += int64(n)
		pr.progressTracker.Update(pr.bytesRead, pr.total)
	}
	//nolint:wrapcheck // io.Reader interface contract - error comes from underlying reader
	return n, err
}
