// Package download provides unit tests for object download operations.
package download

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/testutil"
)

// failingReader returns data then an error.
type failingReader struct {
	data []byte
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, errors.New("connection reset by peer")
	}
	f.done = true
	return copy(p, f.data), nil
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/tmp/out/a.txt", LocalPath("/tmp/out", "a.txt"))
	assert.Equal(t, "./logs/2023/jan.log", LocalPath(".", "logs/2023/jan.log"))
	assert.Equal(t, "out///lead", LocalPath("out/", "/lead"))
}

func TestDownloader_DownloadFile(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		content    string
		localPath  string
		createDirs bool
		prepare    func(*testing.T, *billy.FS)
		wantErr    error
	}{
		{
			name:       "creates destination directory",
			key:        "a.txt",
			content:    "alpha",
			localPath:  "/tmp/out/a.txt",
			createDirs: true,
		},
		{
			name:       "nested key creates subdirectories",
			key:        "logs/2023/jan.log",
			content:    "january",
			localPath:  "/dest/logs/2023/jan.log",
			createDirs: true,
		},
		{
			name:      "existing directory without create",
			key:       "a.txt",
			content:   "alpha",
			localPath: "/dest/a.txt",
			prepare: func(t *testing.T, fsys *billy.FS) {
				require.NoError(t, fsys.MkdirAll("/dest", 0o755))
			},
		},
		{
			name:      "missing directory without create",
			key:       "sub/a.txt",
			content:   "alpha",
			localPath: "/dest/sub/a.txt",
			prepare: func(t *testing.T, fsys *billy.FS) {
				require.NoError(t, fsys.MkdirAll("/dest", 0o755))
			},
			wantErr: collectorerrors.ErrDestinationMissing,
		},
		{
			name:       "relative destination",
			key:        "a.txt",
			content:    "alpha",
			localPath:  "./a.txt",
			createDirs: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := billy.NewInMemoryFS()
			if tt.prepare != nil {
				tt.prepare(t, fsys)
			}
			mock := testutil.NewProviderBuilder().WithBucket("b", testutil.Obj(tt.key, tt.content)).Build()

			result, err := New(mock, fsys).DownloadFile(
				context.Background(), "b", tt.key, tt.localPath, &Config{CreateDirs: tt.createDirs},
			)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				exists, _ := fsys.Exists(tt.localPath)
				assert.False(t, exists)
				return
			}
			require.NoError(t, err)

			data, err := fsys.ReadFile(tt.localPath)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
			assert.Equal(t, tt.localPath, result.Path)
			assert.Equal(t, tt.key, result.Key)
			assert.Equal(t, int64(len(tt.content)), result.Size)
			assert.Equal(t, "text/plain; charset=utf-8", result.ContentType)
		})
	}
}

func TestDownloader_DownloadFile_Progress(t *testing.T) {
	mock := testutil.NewProviderBuilder().
		WithBucket("b", testutil.StoredObject{Key: "k", Data: []byte("Hello, World!"), ContentType: "text/plain"}).
		Build()
	tracker := &testutil.MockProgressTracker{}
	fsys := billy.NewInMemoryFS()

	result, err := New(mock, fsys).DownloadFile(
		context.Background(), "b", "k", "/out/k", &Config{CreateDirs: true, ProgressTracker: tracker},
	)
	require.NoError(t, err)

	assert.Equal(t, "Hello, World!", readAll(t, fsys, "/out/k"))
	assert.Equal(t, int64(13), result.Size)
	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, testutil.CalculateETag([]byte("Hello, World!")), result.ETag)
	assert.True(t, tracker.UpdateCalled)
	assert.Equal(t, int64(13), tracker.BytesTransferred)
	assert.Equal(t, 1, tracker.CompleteCalls)
}

func readAll(t *testing.T, fsys *billy.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDownloader_DownloadFile_GetError(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	mock := testutil.NewProviderBuilder().WithBucket("b").Build()
	tracker := &testutil.MockProgressTracker{}

	_, err := New(mock, fsys).DownloadFile(
		context.Background(), "b", "missing.txt", "/out/missing.txt",
		&Config{CreateDirs: true, ProgressTracker: tracker},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, collectorerrors.ErrObjectNotFound)
	assert.True(t, tracker.ErrorCalled)

	exists, err := fsys.Exists("/out")
	require.NoError(t, err)
	assert.False(t, exists, "no directory is created when the fetch fails")
}

func TestDownloader_DownloadFile_CopyErrorRemovesPartialFile(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	mock := &testutil.MockProvider{
		GetObjectFunc: func(context.Context, string, string) (*provider.Object, error) {
			return &provider.Object{
				Body: io.NopCloser(&failingReader{data: []byte("partial")}),
				Size: 100,
			}, nil
		},
	}

	_, err := New(mock, fsys).DownloadFile(
		context.Background(), "b", "big.bin", "/out/big.bin", &Config{CreateDirs: true},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset by peer")

	exists, err := fsys.Exists("/out/big.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		key  string
		head []byte
		want string
	}{
		{"sniffed text", "notes", []byte("plain words"), "text/plain; charset=utf-8"},
		{"sniffed png", "image", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "image/png"},
		{"extension fallback", "data.json", nil, "application/json"},
		{"default", "blob", nil, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.key, tt.head))
		})
	}
}

func TestHeadWriter(t *testing.T) {
	h := &headWriter{}
	n, err := h.Write([]byte(strings.Repeat("a", 400)))
	require.NoError(t, err)
	assert.Equal(t, 400, n)

	n, err = h.Write([]byte(strings.Repeat("b", 400)))
	require.NoError(t, err)
	assert.Equal(t, 400, n)
	assert.Len(t, h.bytes(), sniffLen)
}
