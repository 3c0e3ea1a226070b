package writers

import (
	"path/filepath"

	"github.com/google/renameio/v2"
)

// AtomicFile is a pending file in the destination directory that only
// replaces the destination on Commit.
type AtomicFile struct {
	*renameio.PendingFile
}

// CreateAtomic opens a pending file next to path.
func CreateAtomic(path string) (*AtomicFile, error) {
	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644))
	if err != nil {
		return nil, err
	}
	return &AtomicFile{PendingFile: pf}, nil
}

// Commit syncs and closes the pending file and renames it onto the destination.
func (a *AtomicFile) Commit() error { return a.CloseAtomicallyReplace() }

// Abort discards the pending file. It is a no-op after Commit.
func (a *AtomicFile) Abort() { _ = a.Cleanup() }
