// Package lsr holds the in-memory description of a Layer Source Representation
// image and decodes it from a bundle.
package lsr

import (
	"fmt"
	"image"
)

// Size is a width/height pair in authored pixels.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Point is a position in authored pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width*0.5, Y: r.Y + r.Height*0.5}
}

// Info is the authoring metadata of a manifest.
type Info struct {
	Author  string `json:"author"`
	Version any    `json:"version"`
}

// Layer is one depth slice. Index 0 of Image.Layers is the nearest layer.
type Layer struct {
	Name        string
	FrameSize   Size
	FrameCenter *Point // nil anchors the layer at the canvas centre
	Filename    string
	Image       image.Image
}

// Image is a parsed LSR bundle. Layer order is z-order and never changes
// after construction.
type Image struct {
	Name       string
	Info       Info
	CanvasSize Size
	Layers     []Layer
}

// NewImage validates the description of a parsed bundle.
func NewImage(name string, canvas Size, layers []Layer) (*Image, error) {
	if len(layers) == 0 {
		return nil, &LoadError{Kind: ErrManifestInvalid, Path: rootManifest, Err: fmt.Errorf("image has no layers")}
	}
	if canvas.Empty() {
		return nil, &LoadError{Kind: ErrManifestInvalid, Path: rootManifest, Err: fmt.Errorf("canvas size %vx%v", canvas.Width, canvas.Height)}
	}
	for _, l := range layers {
		if l.FrameSize.Empty() {
			return nil, &LoadError{Kind: ErrManifestInvalid, Layer: l.Name, Err: fmt.Errorf("frame-size %vx%v", l.FrameSize.Width, l.FrameSize.Height)}
		}
	}
	return &Image{Name: name, CanvasSize: canvas, Layers: layers}, nil
}

// CanvasCentre is the centre of the authored canvas.
func (img *Image) CanvasCentre() Point {
	return Point{X: img.CanvasSize.Width * 0.5, Y: img.CanvasSize.Height * 0.5}
}

// Release drops every decoded raster.
func (img *Image) Release() {
	for i := range img.Layers {
		img.Layers[i].Image = nil
	}
}
