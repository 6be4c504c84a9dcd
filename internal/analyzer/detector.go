package analyzer

import "image"

// Block is a detected region of interest in layer pixels.
type Block struct {
	Rect       image.Rectangle
	Type       string  // "subject", "edge"
	Confidence float64 // 0.0-1.0
}

// Detector finds regions of interest in one layer raster.
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}
