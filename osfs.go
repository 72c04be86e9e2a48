package archivefs

import (
	"io/fs"
	"os"

	"github.com/absfs/absfs"
)

// osFS adapts the os package to the FileSystem interface. *os.File already
// implements absfs.File, so the methods delegate directly.
type osFS struct{}

// NewOSFS returns a FileSystem backed by the host filesystem.
func NewOSFS() FileSystem {
	return osFS{}
}

func (osFS) Open(name string) (absfs.File, error) {
	return os.Open(name)
}

func (osFS) OpenFile(name string, flag int, perm fs.FileMode) (absfs.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (osFS) Create(name string) (absfs.File, error) {
	return os.Create(name)
}

func (osFS) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode)
}

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}
