package engine

// FocusRegistry holds the one image focused by the pointer.
type FocusRegistry struct {
	current *Handle
}

// Current returns the focused image, or nil.
func (f *FocusRegistry) Current() *Handle {
	return f.current
}

// Swap makes h the focused image and returns the one it replaced.
func (f *FocusRegistry) Swap(h *Handle) *Handle {
	prev := f.current
	f.current = h
	return prev
}

// Release clears the registry if it holds h.
func (f *FocusRegistry) Release(h *Handle) bool {
	if f.current != h || h == nil {
		return false
	}
	f.current = nil
	return true
}
