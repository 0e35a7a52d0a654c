package asyncmem

import (
	"context"
	"errors"

	"github.com/linksplatform/mem/mem"
)

// SyncAtomic is not available on windows, where a file cannot be replaced
// by rename while open.
func (m *FileMem[T]) SyncAtomic(context.Context) error {
	return mem.WrapSystem("atomic write", errors.ErrUnsupported)
}
