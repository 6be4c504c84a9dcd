package system

import (
	"image"
	"sync"
)

// ImagePool предоставляет механизмы повторного использования image.RGBA
// для снижения нагрузки на Garbage Collector (GC). Пулы разделены по
// размеру кадра.
type ImagePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

// NewImagePool создает пустой пул.
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

var globalPool = NewImagePool()

// GetImage возвращает экземпляр *image.RGBA с началом координат в (0,0)
// из общего пула или создает новый.
func GetImage(size image.Point) *image.RGBA {
	return globalPool.Get(size)
}

// PutImage возвращает экземпляр *image.RGBA в общий пул.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, exists = p.pools[size]; !exists {
		pool = &sync.Pool{
			New: func() any {
				return image.NewRGBA(image.Rectangle{Max: size})
			},
		}
		p.pools[size] = pool
	}
	return pool
}

// Get returns an image of the given size. Its pixels are not cleared.
func (p *ImagePool) Get(size image.Point) *image.RGBA {
	return p.pool(size).Get().(*image.RGBA)
}

// Put recycles img. Images not starting at the origin are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}
