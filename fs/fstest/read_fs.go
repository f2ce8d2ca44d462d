package fstest

import (
	"io"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
)

// TestReadFS tests Open, ReadFile, Stat, ReadDir and Exists.
func TestReadFS(t *testing.T, filesystem fs.Filesystem, root string) {
	dir := path.Join(root, "read")
	require.NoError(t, filesystem.MkdirAll(dir, 0o755))
	require.NoError(t, filesystem.WriteFile(path.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, filesystem.WriteFile(path.Join(dir, "b.txt"), []byte("bravo!"), 0o644))

	t.Run("Open", func(t *testing.T) {
		f, err := filesystem.Open(path.Join(dir, "a.txt"))
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "alpha", string(data))
	})

	t.Run("ReadFile", func(t *testing.T) {
		data, err := filesystem.ReadFile(path.Join(dir, "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, "bravo!", string(data))
	})

	t.Run("Stat", func(t *testing.T) {
		info, err := filesystem.Stat(path.Join(dir, "b.txt"))
		require.NoError(t, err)
		assert.False(t, info.IsDir())
		assert.Equal(t, int64(6), info.Size())

		info, err = filesystem.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), "expected directory, got file: %v", info.Name())
	})

	t.Run("ReadDir", func(t *testing.T) {
		entries, err := filesystem.ReadDir(dir)
		require.NoError(t, err)

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := filesystem.Exists(path.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = filesystem.Exists(path.Join(dir, "missing"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := filesystem.Open(path.Join(dir, "nope.txt"))
		assert.Error(t, err)

		_, err = filesystem.ReadFile(path.Join(dir, "nope.txt"))
		assert.Error(t, err)

		_, err = filesystem.Stat(path.Join(dir, "nope.txt"))
		assert.Error(t, err)
	})
}
