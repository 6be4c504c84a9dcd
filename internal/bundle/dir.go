package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is a Container over an unpacked bundle folder.
type Dir struct {
	root fs.FS
}

// OpenDir opens the bundle folder at p. It must hold a Contents.json.
func OpenDir(p string) (*Dir, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, p, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrUnreadable, p)
	}
	return &Dir{root: os.DirFS(p)}, nil
}

// OpenPath opens a zip archive or an unpacked folder, whichever p is.
func OpenPath(p string) (Container, error) {
	if fi, err := os.Stat(p); err == nil && fi.IsDir() {
		return OpenDir(p)
	}
	return Open(p)
}

// resolve maps name onto an existing file, matching each path element
// case-insensitively when the exact spelling is absent.
func (d *Dir) resolve(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if _, err := fs.Stat(d.root, clean); err == nil {
		return clean, nil
	}

	cur := "."
	for _, elem := range strings.Split(clean, "/") {
		entries, err := fs.ReadDir(d.root, cur)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		found := ""
		for _, e := range entries {
			if strings.EqualFold(e.Name(), elem) {
				found = e.Name()
				break
			}
		}
		if found == "" {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		cur = path.Join(cur, found)
	}
	return cur, nil
}

// ReadBinary returns the raw bytes of the file at name.
func (d *Dir) ReadBinary(name string) ([]byte, error) {
	p, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(d.root, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreadable, name, err)
	}
	return data, nil
}

// ReadText returns the file at name as a string.
func (d *Dir) ReadText(name string) (string, error) {
	data, err := d.ReadBinary(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *Dir) Close() error { return nil }
