package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openRW(t *testing.T, size int64) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.bin")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.Truncate(size))
	return f
}

func TestMapWriteIsVisibleInFile(t *testing.T) {
	f := openRW(t, 8192)

	m, err := Map(f, 8192)
	require.NoError(t, err)
	require.Equal(t, 8192, m.Len())

	copy(m.Bytes()[4096:], []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, m.FlushRange(4096, 4))
	require.NoError(t, m.SyncFile(false))
	require.NoError(t, m.Unmap())

	got := make([]byte, 4)
	_, err = f.ReadAt(got, 4096)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got)
}

func TestMapZeroLength(t *testing.T) {
	f := openRW(t, 0)

	m, err := Map(f, 0)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
	require.NoError(t, m.Flush())
	require.NoError(t, m.Unmap())
}

func TestUnmapTwiceIsNoop(t *testing.T) {
	f := openRW(t, 4096)

	m, err := Map(f, 4096)
	require.NoError(t, err)
	require.NoError(t, m.Unmap())
	require.NoError(t, m.Unmap())
	require.Nil(t, m.Bytes())
	require.ErrorIs(t, m.SyncFile(false), ErrUnmapped)
}

func TestFlushRangeClamps(t *testing.T) {
	f := openRW(t, 4096)

	m, err := Map(f, 4096)
	require.NoError(t, err)
	defer m.Unmap()

	require.NoError(t, m.FlushRange(4000, 1<<20))
	require.NoError(t, m.FlushRange(1<<20, 10))
	require.Error(t, m.FlushRange(-1, 10))
}
