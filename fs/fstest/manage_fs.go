package fstest

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
)

// TestManageFS tests Remove, which the downloader uses to drop partial files.
func TestManageFS(t *testing.T, filesystem fs.Filesystem, root string) {
	t.Run("RemoveFile", func(t *testing.T) {
		p := path.Join(root, "remove.txt")
		require.NoError(t, filesystem.WriteFile(p, []byte("x"), 0o644))
		require.NoError(t, filesystem.Remove(p))

		ok, err := filesystem.Exists(p)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RemoveEmptyDir", func(t *testing.T) {
		p := path.Join(root, "emptydir")
		require.NoError(t, filesystem.MkdirAll(p, 0o755))
		require.NoError(t, filesystem.Remove(p))

		ok, err := filesystem.Exists(p)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		assert.Error(t, filesystem.Remove(path.Join(root, "never-existed")))
	})
}
