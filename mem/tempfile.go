package mem

import (
	"errors"
	"fmt"
	"os"
)

// TempFile is a FileMapped over an anonymous temporary file. The file is
// unlinked right after creation where the platform allows it, otherwise it
// is removed on Close.
type TempFile[T any] struct {
	inner *FileMapped[T]
	path  string // set while the file still has a name
}

// NewTempFile creates the file in the system temp directory.
func NewTempFile[T any]() (*TempFile[T], error) {
	return NewTempFileIn[T]("")
}

// NewTempFileIn creates the file in dir.
func NewTempFileIn[T any](dir string) (*TempFile[T], error) {
	MustBePlain[T]("TempFile")

	f, err := os.CreateTemp(dir, "mem-*.tmp")
	if err != nil {
		return nil, systemError("create temp", err)
	}

	t := &TempFile[T]{path: f.Name()}
	if os.Remove(f.Name()) == nil {
		t.path = ""
	}

	t.inner, err = NewFileMapped[T](f)
	if err != nil {
		_ = f.Close()
		t.removeFile()
		return nil, err
	}
	return t, nil
}

func (t *TempFile[T]) Allocated() []T { return t.inner.Allocated() }
func (t *TempFile[T]) AllocatedMut() []T { return t.inner.AllocatedMut() }
func (t *TempFile[T]) SizeHint() (int, bool) { return t.inner.SizeHint() }
func (t *TempFile[T]) Shrink(count int) error { return t.inner.Shrink(count) }

func (t *TempFile[T]) Grow(addition int, fill func(*Uninit[T])) ([]T, error) {
	return t.inner.Grow(addition, fill)
}

func (t *TempFile[T]) Close() error {
	err := t.inner.Close()
	return errors.Join(err, t.removeFile())
}

func (t *TempFile[T]) String() string { return fmt.Sprintf("TempFile(%v)", t.inner) }

func (t *TempFile[T]) removeFile() error {
	if t.path == "" {
		return nil
	}
	err := os.Remove(t.path)
	t.path = ""
	return systemError("remove temp", err)
}
