//go:build !windows

package asyncmem

import (
	"context"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
	"github.com/linksplatform/mem/internal/logger"
	"github.com/linksplatform/mem/mem"
)

// SyncAtomic replaces the file with the buffer through a synced temporary
// file and a rename, so readers observe either the old or the new content.
// The file keeps its permission bits.
func (m *FileMem[T]) SyncAtomic(ctx context.Context) error {
	if m.path == "" {
		m.dirty = false
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := fs.FileMode(0o644)
	if st, err := os.Stat(m.path); err == nil {
		perm = st.Mode().Perm()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := renameio.WriteFile(m.path, mem.BytesOf(m.buf), perm); err != nil {
		return mem.WrapSystem("atomic write", err)
	}

	m.dirty = false
	m.persisted = true
	logger.L.Debug("replaced async memory", "path", m.path, "elements", len(m.buf))
	return nil
}
