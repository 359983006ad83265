package shaping

import (
	"errors"

	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/logger"
)

type cacheKey struct {
	font style.Font
	size float64
}

// Cache holds one engine per distinct font and size.
type Cache struct {
	factory Factory
	engines map[cacheKey]*FaceEngine
	tracker Tracker
}

// NewCache creates an empty cache. A nil factory means DefaultFactory.
func NewCache(factory Factory) *Cache {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Cache{
		factory: factory,
		engines: make(map[cacheKey]*FaceEngine),
	}
}

// Engine returns the engine for the font and size in p, opening it on first use.
func (c *Cache) Engine(p style.Props) (Engine, error) {
	key := cacheKey{font: p.Font, size: p.Size}
	if e, ok := c.engines[key]; ok {
		return e, nil
	}
	face, err := c.factory(p.Font, p.Size)
	if err != nil {
		return nil, err
	}
	e := NewFaceEngine(face, &c.tracker)
	c.engines[key] = e
	logger.DebugTagf("shaping", "opened engine %s %.1fpt", p.Font, p.Size)
	return e, nil
}

// Len returns the number of open engines.
func (c *Cache) Len() int {
	return len(c.engines)
}

// Calls returns the number of segment requests across all engines.
func (c *Cache) Calls() int {
	n := 0
	for _, e := range c.engines {
		n += e.Calls()
	}
	return n
}

// Tracker returns the handle counter shared by every engine in the cache.
func (c *Cache) Tracker() *Tracker {
	return &c.tracker
}

// Close closes every engine. The cache is empty afterwards.
func (c *Cache) Close() error {
	var errs []error
	for k, e := range c.engines {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.engines, k)
	}
	return errors.Join(errs...)
}
