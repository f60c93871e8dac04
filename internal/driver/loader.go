package driver

import (
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"cxxfront/internal/cppast"
)

// Loader decodes AST packs. Concurrent loads of the same path share one
// decode, and decoded units are kept for the lifetime of the loader so a
// batch naming a file twice (or a watch cycle) does not decode it again.
type Loader struct {
	group singleflight.Group

	mu    sync.Mutex
	units map[string]*cppast.Unit
}

func NewLoader() *Loader {
	return &Loader{units: make(map[string]*cppast.Unit)}
}

// Load returns the unit stored at path.
func (l *Loader) Load(path string) (*cppast.Unit, error) {
	key := filepath.Clean(path)
	l.mu.Lock()
	if u, ok := l.units[key]; ok {
		l.mu.Unlock()
		return u, nil
	}
	l.mu.Unlock()

	v, err, _ := l.group.Do(key, func() (any, error) {
		u, err := cppast.ReadFile(key)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.units[key] = u
		l.mu.Unlock()
		return u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return v.(*cppast.Unit), nil
}

// Forget drops the cached unit of path, so the next Load decodes it again.
func (l *Loader) Forget(path string) {
	l.mu.Lock()
	delete(l.units, filepath.Clean(path))
	l.mu.Unlock()
}
