package archivefs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/absfs/absfs"
)

// normalizePath normalizes a path for consistent storage/lookup. It cleans
// the path and strips leading separators so absolute and relative spellings
// land on the same key.
func normalizePath(name string) string {
	name = filepath.Clean(name)
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, string(filepath.Separator))
	if name == "" {
		name = "."
	}
	return name
}

// memFS is an in-memory filesystem for tests. Unlike a flat map of files it
// tracks directories for real: MkdirAll builds the chain, ReadDir lists one
// level, and creating a file under a missing directory fails the way the os
// package would.
type memFS struct {
	mu    sync.RWMutex
	nodes map[string]*memNode
	dirs  map[string]fs.FileMode
}

// NewMemFS creates a new in-memory filesystem rooted at ".".
func NewMemFS() FileSystem {
	return &memFS{
		nodes: make(map[string]*memNode),
		dirs:  map[string]fs.FileMode{".": 0o755},
	}
}

// memNode is the stored state of one file; handles share it.
type memNode struct {
	mu      sync.Mutex
	name    string
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// memFile is one open handle onto a node.
type memFile struct {
	node   *memNode
	pos    int64
	closed bool
}

func (mfs *memFS) Open(name string) (absfs.File, error) {
	return mfs.OpenFile(name, os.O_RDONLY, 0)
}

func (mfs *memFS) OpenFile(name string, flag int, perm fs.FileMode) (absfs.File, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = normalizePath(name)
	if _, isDir := mfs.dirs[name]; isDir {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	node, exists := mfs.nodes[name]
	if !exists {
		if flag&os.O_CREATE == 0 {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		if _, ok := mfs.dirs[filepath.Dir(name)]; !ok {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		node = &memNode{
			name:    name,
			mode:    perm,
			modTime: time.Now(),
		}
		mfs.nodes[name] = node
	}

	if flag&os.O_TRUNC != 0 {
		node.mu.Lock()
		node.data = nil
		node.modTime = time.Now()
		node.mu.Unlock()
	}

	handle := &memFile{node: node}
	if flag&os.O_APPEND != 0 {
		handle.pos = int64(len(node.data))
	}
	return handle, nil
}

func (mfs *memFS) Create(name string) (absfs.File, error) {
	return mfs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

func (mfs *memFS) MkdirAll(name string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = normalizePath(name)
	if name == "." {
		return nil
	}
	sep := string(filepath.Separator)
	path := ""
	for _, part := range strings.Split(name, sep) {
		if path == "" {
			path = part
		} else {
			path = path + sep + part
		}
		if _, isFile := mfs.nodes[path]; isFile {
			return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
		}
		if _, ok := mfs.dirs[path]; !ok {
			mfs.dirs[path] = perm
		}
	}
	return nil
}

func (mfs *memFS) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = normalizePath(name)
	if node, ok := mfs.nodes[name]; ok {
		return node.info(), nil
	}
	if mode, ok := mfs.dirs[name]; ok {
		return &memFileInfo{
			name:    filepath.Base(name),
			mode:    fs.ModeDir | mode,
			modTime: time.Now(),
		}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (mfs *memFS) Chmod(name string, mode fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = normalizePath(name)
	if node, ok := mfs.nodes[name]; ok {
		node.mu.Lock()
		node.mode = mode
		node.mu.Unlock()
		return nil
	}
	if _, ok := mfs.dirs[name]; ok {
		mfs.dirs[name] = mode.Perm()
		return nil
	}
	return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrNotExist}
}

func (mfs *memFS) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = normalizePath(name)
	if _, ok := mfs.dirs[name]; !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry
	for path, node := range mfs.nodes {
		if filepath.Dir(path) == name {
			entries = append(entries, fs.FileInfoToDirEntry(node.info()))
		}
	}
	for path, mode := range mfs.dirs {
		if path != "." && filepath.Dir(path) == name {
			entries = append(entries, fs.FileInfoToDirEntry(&memFileInfo{
				name:    filepath.Base(path),
				mode:    fs.ModeDir | mode,
				modTime: time.Now(),
			}))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (node *memNode) info() *memFileInfo {
	node.mu.Lock()
	defer node.mu.Unlock()
	return &memFileInfo{
		name:    filepath.Base(node.name),
		size:    int64(len(node.data)),
		mode:    node.mode,
		modTime: node.modTime,
	}
}

func (mf *memFile) Read(p []byte) (n int, err error) {
	if mf.closed {
		return 0, fs.ErrClosed
	}
	mf.node.mu.Lock()
	defer mf.node.mu.Unlock()

	if mf.pos >= int64(len(mf.node.data)) {
		return 0, io.EOF
	}
	n = copy(p, mf.node.data[mf.pos:])
	mf.pos += int64(n)
	return n, nil
}

func (mf *memFile) ReadAt(b []byte, off int64) (n int, err error) {
	if mf.closed {
		return 0, fs.ErrClosed
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	mf.node.mu.Lock()
	defer mf.node.mu.Unlock()

	if off >= int64(len(mf.node.data)) {
		return 0, io.EOF
	}
	n = copy(b, mf.node.data[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

func (mf *memFile) Write(p []byte) (n int, err error) {
	if mf.closed {
		return 0, fs.ErrClosed
	}
	mf.node.mu.Lock()
	defer mf.node.mu.Unlock()

	end := mf.pos + int64(len(p))
	if end > int64(len(mf.node.data)) {
		grown := make([]byte, end)
		copy(grown, mf.node.data)
		mf.node.data = grown
	}
	copy(mf.node.data[mf.pos:], p)
	mf.pos = end
	mf.node.modTime = time.Now()
	return len(p), nil
}

func (mf *memFile) WriteAt(b []byte, off int64) (n int, err error) {
	if mf.closed {
		return 0, fs.ErrClosed
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	mf.node.mu.Lock()
	defer mf.node.mu.Unlock()

	end := off + int64(len(b))
	if end > int64(len(mf.node.data)) {
		grown := make([]byte, end)
		copy(grown, mf.node.data)
		mf.node.data = grown
	}
	copy(mf.node.data[off:], b)
	mf.node.modTime = time.Now()
	return len(b), nil
}

func (mf *memFile) WriteString(s string) (n int, err error) {
	return mf.Write([]byte(s))
}

func (mf *memFile) Seek(offset int64, whence int) (int64, error) {
	if mf.closed {
		return 0, fs.ErrClosed
	}
	mf.node.mu.Lock()
	defer mf.node.mu.Unlock()

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = mf.pos + offset
	case io.SeekEnd:
		pos = int64(len(mf.node.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	mf.pos = pos
	return pos, nil
}

func (mf *memFile) Truncate(size int64) error {
	if mf.closed {
		return fs.ErrClosed
	}
	mf.node.mu.Lock()
	defer mf.node.mu.Unlock()

	switch {
	case size < int64(len(mf.node.data)):
		mf.node.data = mf.node.data[:size]
	case size > int64(len(mf.node.data)):
		grown := make([]byte, size)
		copy(grown, mf.node.data)
		mf.node.data = grown
	}
	mf.node.modTime = time.Now()
	return nil
}

func (mf *memFile) Stat() (fs.FileInfo, error) {
	return mf.node.info(), nil
}

func (mf *memFile) Sync() error { return nil }

func (mf *memFile) Name() string { return mf.node.name }

func (mf *memFile) Close() error {
	mf.closed = true
	return nil
}

// Readdir is not supported: memFS file handles never represent directories.
func (mf *memFile) Readdir(n int) ([]os.FileInfo, error) {
	return nil, os.ErrInvalid
}

func (mf *memFile) Readdirnames(n int) ([]string, error) {
	return nil, os.ErrInvalid
}

type memFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi *memFileInfo) Name() string       { return fi.name }
func (fi *memFileInfo) Size() int64        { return fi.size }
func (fi *memFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *memFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *memFileInfo) Sys() interface{}   { return nil }
