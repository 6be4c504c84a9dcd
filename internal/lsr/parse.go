package lsr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lsrview/internal/bundle"
)

const (
	rootManifest     = "Contents.json"
	layerManifest    = "Contents.json"
	imageSetDir      = "Content.imageset"
	imageSetManifest = "Content.imageset/Contents.json"
)

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

type rootDoc struct {
	Info   Info `json:"info"`
	Layers []struct {
		Filename string `json:"filename"`
	} `json:"layers"`
	Properties struct {
		CanvasSize Size `json:"canvasSize"`
	} `json:"properties"`
}

type layerDoc struct {
	Info       Info `json:"info"`
	Properties struct {
		FrameSize   *Size  `json:"frame-size"`
		FrameCenter *Point `json:"frame-center"`
	} `json:"properties"`
}

type imageSetDoc struct {
	Images []struct {
		Filename string `json:"filename"`
		Idiom    string `json:"idiom"`
		Scale    string `json:"scale"`
	} `json:"images"`
}

// Parse reads the manifest of c and decodes every layer. Layers load
// concurrently; any failure aborts the whole image and no partial Image is
// returned.
func Parse(ctx context.Context, c bundle.Container, name string) (*Image, error) {
	var root rootDoc
	if err := readJSON(c, rootManifest, "", &root); err != nil {
		return nil, err
	}

	layers := make([]Layer, len(root.Layers))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range root.Layers {
		i, ref := i, ref
		g.Go(func() error {
			l, err := parseLayer(gctx, c, ref.Filename)
			if err != nil {
				return err
			}
			layers[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := NewImage(name, root.Properties.CanvasSize, layers)
	if err != nil {
		return nil, err
	}
	img.Info = root.Info
	return img, nil
}

func parseLayer(ctx context.Context, c bundle.Container, dir string) (Layer, error) {
	var doc layerDoc
	if err := readJSON(c, path.Join(dir, layerManifest), dir, &doc); err != nil {
		return Layer{}, err
	}
	if doc.Properties.FrameSize == nil {
		return Layer{}, &LoadError{Kind: ErrManifestInvalid, Layer: dir, Path: path.Join(dir, layerManifest), Err: errors.New("frame-size absent")}
	}

	setPath := path.Join(dir, imageSetManifest)
	var set imageSetDoc
	if err := readJSON(c, setPath, dir, &set); err != nil {
		return Layer{}, err
	}
	// Only the first image of a set is ever displayed.
	if len(set.Images) == 0 || set.Images[0].Filename == "" {
		return Layer{}, &LoadError{Kind: ErrLayerImageMissing, Layer: dir, Path: setPath}
	}
	filename := set.Images[0].Filename
	entry := path.Join(dir, imageSetDir, filename)

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return Layer{}, &LoadError{Kind: ErrUnsupportedImageType, Layer: dir, Path: entry}
	}

	if err := ctx.Err(); err != nil {
		return Layer{}, err
	}
	data, err := c.ReadBinary(entry)
	if err != nil {
		if errors.Is(err, bundle.ErrNotFound) {
			return Layer{}, &LoadError{Kind: ErrLayerImageMissing, Layer: dir, Path: entry, Err: err}
		}
		return Layer{}, &LoadError{Kind: ErrBundleUnreadable, Layer: dir, Path: entry, Err: err}
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Layer{}, &LoadError{Kind: ErrLayerDecodeFailed, Layer: dir, Path: entry, Err: err}
	}

	return Layer{
		Name:        dir,
		FrameSize:   *doc.Properties.FrameSize,
		FrameCenter: doc.Properties.FrameCenter,
		Filename:    filename,
		Image:       decoded,
	}, nil
}

func readJSON(c bundle.Container, name, layer string, v any) error {
	text, err := c.ReadText(name)
	if err != nil {
		if errors.Is(err, bundle.ErrNotFound) {
			return &LoadError{Kind: ErrManifestMissing, Layer: layer, Path: name, Err: err}
		}
		return &LoadError{Kind: ErrBundleUnreadable, Layer: layer, Path: name, Err: err}
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &LoadError{Kind: ErrBundleUnreadable, Layer: layer, Path: name, Err: fmt.Errorf("parse json: %w", err)}
	}
	return nil
}

// Load opens the bundle at p and parses it.
func Load(ctx context.Context, p string) (*Image, error) {
	z, err := bundle.OpenPath(p)
	if err != nil {
		return nil, &LoadError{Kind: ErrBundleUnreadable, Path: p, Err: err}
	}
	defer z.Close()
	return Parse(ctx, z, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
}

// LoadBytes parses a bundle held in memory.
func LoadBytes(ctx context.Context, name string, data []byte) (*Image, error) {
	z, err := bundle.OpenBytes(data)
	if err != nil {
		return nil, &LoadError{Kind: ErrBundleUnreadable, Path: name, Err: err}
	}
	defer z.Close()
	return Parse(ctx, z, name)
}
