package lsr

import (
	"errors"
	"fmt"
)

// Load failure kinds. Match them with errors.Is.
var (
	ErrBundleUnreadable     = errors.New("bundle unreadable")
	ErrManifestMissing      = errors.New("manifest missing")
	ErrManifestInvalid      = errors.New("manifest invalid")
	ErrLayerImageMissing    = errors.New("layer image missing")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrLayerDecodeFailed    = errors.New("layer decode failed")
)

// LoadError reports why an image could not be loaded.
type LoadError struct {
	Kind  error
	Layer string
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	msg := e.Kind.Error()
	if e.Layer != "" {
		msg += " (layer " + e.Layer + ")"
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is matches the failure kind.
func (e *LoadError) Is(target error) bool {
	return target == e.Kind
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
