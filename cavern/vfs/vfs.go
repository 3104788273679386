// Package vfs layers a writable user directory over the read-only game data.
package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	osfs "github.com/hack-pad/hackpadfs/os"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FilesystemError reports a failed filesystem operation on a virtual path.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("vfs: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// VFS resolves rooted paths such as "/bkg/foo.json" against a user overlay
// first and the game data second. Writes always go to the user overlay.
type VFS struct {
	data hackpadfs.FS
	user hackpadfs.FS

	dataDir string
	userDir string
}

// New wraps two existing filesystems.
func New(data, user hackpadfs.FS) *VFS {
	return &VFS{data: data, user: user}
}

// NewOS mounts two host directories. The user directory is created if missing.
func NewOS(dataDir, userDir string) (*VFS, error) {
	root := osfs.NewFS()

	data, err := subdir(root, dataDir)
	if err != nil {
		return nil, &FilesystemError{Op: "mount", Path: dataDir, Err: err}
	}

	userPath, err := hostPath(root, userDir)
	if err != nil {
		return nil, &FilesystemError{Op: "mount", Path: userDir, Err: err}
	}
	if err := hackpadfs.MkdirAll(root, userPath, dirPerm); err != nil {
		return nil, &FilesystemError{Op: "mkdir", Path: userDir, Err: err}
	}
	user, err := root.Sub(userPath)
	if err != nil {
		return nil, &FilesystemError{Op: "mount", Path: userDir, Err: err}
	}

	v := New(data, user)
	v.dataDir, v.userDir = dataDir, userDir
	return v, nil
}

// NewMemory returns a VFS backed by two empty in-memory filesystems.
func NewMemory() (*VFS, error) {
	data, err := mem.NewFS()
	if err != nil {
		return nil, err
	}
	user, err := mem.NewFS()
	if err != nil {
		return nil, err
	}
	return New(data, user), nil
}

func hostPath(root *osfs.FS, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return root.FromOSPath(abs)
}

func subdir(root *osfs.FS, dir string) (hackpadfs.FS, error) {
	p, err := hostPath(root, dir)
	if err != nil {
		return nil, err
	}
	return root.Sub(p)
}

// Clean turns a rooted virtual path into an io/fs path.
func Clean(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

// ReadFile reads a file, preferring the user overlay.
func (v *VFS) ReadFile(name string) ([]byte, error) {
	p := Clean(name)
	if v.user != nil {
		data, err := fs.ReadFile(v.user, p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &FilesystemError{Op: "read", Path: name, Err: err}
		}
	}
	data, err := fs.ReadFile(v.data, p)
	if err != nil {
		return nil, &FilesystemError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}

// Exists reports whether name resolves in either layer.
func (v *VFS) Exists(name string) bool {
	p := Clean(name)
	if v.user != nil {
		if _, err := hackpadfs.Stat(v.user, p); err == nil {
			return true
		}
	}
	_, err := hackpadfs.Stat(v.data, p)
	return err == nil
}

// WriteUserFile writes to the user overlay, creating parent directories.
func (v *VFS) WriteUserFile(name string, data []byte) error {
	return write(v.user, name, data)
}

// WriteDataFile writes to the data layer. Only in-memory layers accept it.
func (v *VFS) WriteDataFile(name string, data []byte) error {
	return write(v.data, name, data)
}

func write(target hackpadfs.FS, name string, data []byte) error {
	if target == nil {
		return &FilesystemError{Op: "write", Path: name, Err: hackpadfs.ErrNotImplemented}
	}
	p := Clean(name)
	if dir := path.Dir(p); dir != "." {
		if err := hackpadfs.MkdirAll(target, dir, dirPerm); err != nil {
			return &FilesystemError{Op: "mkdir", Path: name, Err: err}
		}
	}
	if err := hackpadfs.WriteFullFile(target, p, data, filePerm); err != nil {
		return &FilesystemError{Op: "write", Path: name, Err: err}
	}
	return nil
}

// List returns the sorted file names in dir across both layers.
func (v *VFS) List(dir string) ([]string, error) {
	p := Clean(dir)
	seen := map[string]bool{}
	found := false

	for _, layer := range []hackpadfs.FS{v.user, v.data} {
		if layer == nil {
			continue
		}
		entries, err := hackpadfs.ReadDir(layer, p)
		if err != nil {
			continue
		}
		found = true
		for _, e := range entries {
			if !e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}
	if !found {
		return nil, &FilesystemError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// HostDirs returns the host directories backing dir, user first. It is empty
// for in-memory filesystems.
func (v *VFS) HostDirs(dir string) []string {
	var dirs []string
	rel := filepath.FromSlash(Clean(dir))
	for _, root := range []string{v.userDir, v.dataDir} {
		if root != "" {
			dirs = append(dirs, filepath.Join(root, rel))
		}
	}
	return dirs
}
