// Package bundle opens LSR containers (zip archives or unpacked folders)
// and reads their entries.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotFound is returned when a path is absent from the container.
	ErrNotFound = errors.New("bundle: entry not found")
	// ErrUnreadable is returned when the container is not a readable zip archive.
	ErrUnreadable = errors.New("bundle: unreadable container")
)

// Container gives named access to the files of an unpacked bundle.
type Container interface {
	ReadText(name string) (string, error)
	ReadBinary(name string) ([]byte, error)
	Close() error
}

// Zip is a Container backed by archive/zip.
type Zip struct {
	files  map[string]*zip.File
	folded map[string]*zip.File
	prefix string
	closer io.Closer
}

// Open opens the bundle at path.
func Open(p string) (*Zip, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, p, err)
	}
	return newZip(&r.Reader, r), nil
}

// OpenBytes opens a bundle held in memory.
func OpenBytes(data []byte) (*Zip, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return newZip(r, nil), nil
}

func newZip(r *zip.Reader, closer io.Closer) *Zip {
	z := &Zip{
		files:  make(map[string]*zip.File, len(r.File)),
		folded: make(map[string]*zip.File, len(r.File)),
		closer: closer,
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		z.files[f.Name] = f
		z.folded[strings.ToLower(f.Name)] = f
	}
	// Bundles zipped from Finder keep the "Name.lsr/" folder as the only root.
	if _, ok := z.files["Contents.json"]; !ok {
		z.prefix = commonFolder(z.files)
	}
	return z
}

// commonFolder returns "dir/" when every entry lives under the same
// top-level directory that holds a Contents.json.
func commonFolder(files map[string]*zip.File) string {
	var prefix string
	for name := range files {
		i := strings.IndexByte(name, '/')
		if i < 0 {
			return ""
		}
		if prefix == "" {
			prefix = name[:i+1]
		} else if name[:i+1] != prefix {
			return ""
		}
	}
	if _, ok := files[prefix+"Contents.json"]; !ok {
		return ""
	}
	return prefix
}

// Names returns every file entry of the container.
func (z *Zip) Names() []string {
	names := make([]string, 0, len(z.files))
	for name := range z.files {
		names = append(names, strings.TrimPrefix(name, z.prefix))
	}
	return names
}

func (z *Zip) lookup(name string) (*zip.File, error) {
	full := z.prefix + strings.TrimPrefix(name, "/")
	if f, ok := z.files[full]; ok {
		return f, nil
	}
	if f, ok := z.folded[strings.ToLower(full)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// ReadBinary returns the raw bytes stored at name.
func (z *Zip) ReadBinary(name string) ([]byte, error) {
	f, err := z.lookup(name)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnreadable, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreadable, name, err)
	}
	return data, nil
}

// ReadText returns the entry at name as a string.
func (z *Zip) ReadText(name string) (string, error) {
	data, err := z.ReadBinary(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close releases the underlying file when the bundle was opened from disk.
func (z *Zip) Close() error {
	if z.closer != nil {
		return z.closer.Close()
	}
	return nil
}
