package fstest

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
)

// TestWriteFS tests Create, WriteFile and MkdirAll.
func TestWriteFS(t *testing.T, filesystem fs.Filesystem, root string) {
	t.Run("CreateAndWrite", func(t *testing.T) {
		p := path.Join(root, "created.txt")

		f, err := filesystem.Create(p)
		require.NoError(t, err)
		n, err := f.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		info, err := f.Stat()
		require.NoError(t, err)
		assert.Equal(t, int64(5), info.Size())
		require.NoError(t, f.Close())

		data, err := filesystem.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("CreateTruncates", func(t *testing.T) {
		p := path.Join(root, "truncate.txt")
		require.NoError(t, filesystem.WriteFile(p, []byte("a much longer original body"), 0o644))

		f, err := filesystem.Create(p)
		require.NoError(t, err)
		_, err = f.Write([]byte("short"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := filesystem.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "short", string(data))
	})

	t.Run("WriteFile", func(t *testing.T) {
		p := path.Join(root, "writefile.txt")
		require.NoError(t, filesystem.WriteFile(p, []byte("payload"), 0o644))

		data, err := filesystem.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("MkdirAll", func(t *testing.T) {
		p := path.Join(root, "a/b/c")
		require.NoError(t, filesystem.MkdirAll(p, 0o755))
		require.NoError(t, filesystem.MkdirAll(p, 0o755), "MkdirAll on an existing directory")

		for _, dir := range []string{"a", "a/b", "a/b/c"} {
			info, err := filesystem.Stat(path.Join(root, dir))
			require.NoError(t, err)
			assert.True(t, info.IsDir(), dir)
		}
	})
}
