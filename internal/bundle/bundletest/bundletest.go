// Package bundletest builds in-memory LSR bundles for tests.
package bundletest

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Layer describes one layer of a synthetic bundle.
type Layer struct {
	Name        string
	Width       int
	Height      int
	Center      *[2]float64
	Color       color.RGBA
	Filename    string // defaults to "layer.png"
	Data        []byte // overrides the generated PNG
	NoImages    bool   // omit the "images" array of the image set
	NoFrameSize bool
}

// Bundle describes a synthetic LSR bundle.
type Bundle struct {
	Width  int
	Height int
	Layers []Layer
	Prefix string // optional top-level folder, e.g. "Sample.lsr/"
	Skip   []string
}

// Bytes zips the bundle.
func (b Bundle) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	skip := make(map[string]bool, len(b.Skip))
	for _, s := range b.Skip {
		skip[s] = true
	}
	write := func(name string, data []byte) error {
		if skip[name] {
			return nil
		}
		w, err := zw.Create(b.Prefix + name)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	writeJSON := func(name string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return write(name, data)
	}

	refs := make([]map[string]string, 0, len(b.Layers))
	for i, l := range b.Layers {
		if l.Name == "" {
			l.Name = fmt.Sprintf("Layer%d.imagestacklayer", i)
			b.Layers[i].Name = l.Name
		}
		refs = append(refs, map[string]string{"filename": l.Name})
	}
	root := map[string]any{
		"info":   map[string]any{"author": "bundletest", "version": 1},
		"layers": refs,
		"properties": map[string]any{
			"canvasSize": map[string]int{"width": b.Width, "height": b.Height},
		},
	}
	if err := writeJSON("Contents.json", root); err != nil {
		return nil, err
	}

	for _, l := range b.Layers {
		props := map[string]any{}
		if !l.NoFrameSize {
			props["frame-size"] = map[string]int{"width": l.Width, "height": l.Height}
		}
		if l.Center != nil {
			props["frame-center"] = map[string]float64{"x": l.Center[0], "y": l.Center[1]}
		}
		if err := writeJSON(l.Name+"/Contents.json", map[string]any{
			"info":       map[string]any{"author": "bundletest", "version": 1},
			"properties": props,
		}); err != nil {
			return nil, err
		}

		filename := l.Filename
		if filename == "" {
			filename = "layer.png"
		}
		set := map[string]any{"info": map[string]any{"author": "bundletest"}}
		if !l.NoImages {
			set["images"] = []map[string]string{{"filename": filename, "idiom": "universal"}}
		}
		if err := writeJSON(l.Name+"/Content.imageset/Contents.json", set); err != nil {
			return nil, err
		}

		data := l.Data
		if data == nil {
			var err error
			if data, err = SolidPNG(l.Width, l.Height, l.Color); err != nil {
				return nil, err
			}
		}
		if err := write(l.Name+"/Content.imageset/"+filename, data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SolidPNG encodes a w×h PNG filled with c.
func SolidPNG(w, h int, c color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TwoLayer is the 200×200 two-layer fixture: layer 0 has no frame-center,
// layer 1 is centred at (50,50). Both frames are 100×100.
func TwoLayer() Bundle {
	return Bundle{
		Width:  200,
		Height: 200,
		Layers: []Layer{
			{Name: "Front.imagestacklayer", Width: 100, Height: 100, Color: color.RGBA{R: 255, A: 255}},
			{Name: "Back.imagestacklayer", Width: 100, Height: 100, Center: &[2]float64{50, 50}, Color: color.RGBA{B: 255, A: 255}},
		},
	}
}
