package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ivlev/lsrview/internal/bundle/bundletest"
)

func TestOpenBytes(t *testing.T) {
	data, err := bundletest.TwoLayer().Bytes()
	if err != nil {
		t.Fatalf("build bundle: %v", err)
	}

	z, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer z.Close()

	text, err := z.ReadText("Contents.json")
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text == "" {
		t.Error("expected root manifest content")
	}

	png, err := z.ReadBinary("Back.imagestacklayer/Content.imageset/layer.png")
	if err != nil {
		t.Fatalf("ReadBinary failed: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("expected PNG signature, got %q", png[:4])
	}
}

func TestNotFound(t *testing.T) {
	data, _ := bundletest.TwoLayer().Bytes()
	z, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}

	_, err = z.ReadText("Missing/Contents.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUnreadable(t *testing.T) {
	_, err := OpenBytes([]byte("definitely not a zip"))
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
}

func TestFolderPrefixAndCase(t *testing.T) {
	b := bundletest.TwoLayer()
	b.Prefix = "Sample.lsr/"
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("build bundle: %v", err)
	}
	z, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}

	if _, err := z.ReadText("Contents.json"); err != nil {
		t.Errorf("root manifest behind folder prefix: %v", err)
	}
	if _, err := z.ReadText("front.imagestacklayer/contents.json"); err != nil {
		t.Errorf("case-insensitive lookup: %v", err)
	}

	names := z.Names()
	sort.Strings(names)
	if names[0] != "Back.imagestacklayer/Content.imageset/Contents.json" {
		t.Errorf("unexpected first name %q", names[0])
	}
}

func TestOpenFromDisk(t *testing.T) {
	data, _ := bundletest.TwoLayer().Bytes()
	path := filepath.Join(t.TempDir(), "sample.lsr")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	z, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "nope.lsr")); !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable for missing file, got %v", err)
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"Contents.json":               `{"layers":[]}`,
		"Front.imagestacklayer/a.txt": "front",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := OpenPath(root)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*Dir); !ok {
		t.Fatalf("expected *Dir, got %T", c)
	}

	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"Contents.json", `{"layers":[]}`, nil},
		{"/contents.JSON", `{"layers":[]}`, nil},
		{"front.imagestacklayer/A.txt", "front", nil},
		{"missing.json", "", ErrNotFound},
		{"../escape", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ReadText(tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadText(%q) error = %v, want %v", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ReadText(%q) = %q, %v", tt.name, got, err)
			}
		})
	}
}

func TestOpenDirNotADirectory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file.lsr")
	if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenDir(p); !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
	if _, err := OpenPath(p); !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable for a non-zip file, got %v", err)
	}
}
