// Package registry lazily instantiates effect backends by name and keeps
// every instance for the life of the process.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/logging"
	"golang.org/x/sync/singleflight"
)

// LoadError reports a backend whose loader failed. It matches
// effect.ErrLoadFailed under errors.Is.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load backend %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == effect.ErrLoadFailed }

type Registry struct {
	mu      sync.Mutex
	loaders map[string]effect.Loader
	cache   map[string]effect.Backend
	group   singleflight.Group
}

func New() *Registry {
	return &Registry{
		loaders: make(map[string]effect.Loader),
		cache:   make(map[string]effect.Backend),
	}
}

// Register adds or replaces the loader for name. An already cached
// instance is kept.
func (r *Registry) Register(name string, l effect.Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[name] = l
}

func (r *Registry) RegisterAll(loaders map[string]effect.Loader) {
	for name, l := range loaders {
		r.Register(name, l)
	}
}

func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loaders[name]
	return ok
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cached returns the instance for name if it has already been loaded.
func (r *Registry) Cached(name string) (effect.Backend, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.cache[name]
	return b, ok
}

// Load returns the instance for name, instantiating it on first use.
// Concurrent first loads of one name share a single instantiation. A failed
// load is not cached, so a later call tries again.
func (r *Registry) Load(ctx context.Context, name string) (effect.Backend, error) {
	r.mu.Lock()
	if b, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return b, nil
	}
	loader, ok := r.loaders[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", effect.ErrUnknownBackend, name)
	}

	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		if b, ok := r.Cached(name); ok {
			return b, nil
		}

		start := time.Now()
		logging.L().Debug("loading backend", "effect", name)
		b, err := loader(ctx)
		if err == nil && b == nil {
			err = errors.New("loader returned no backend")
		}
		if err != nil {
			logging.L().Warn("backend load failed", "effect", name, "err", err)
			return nil, &LoadError{Name: name, Err: err}
		}

		r.mu.Lock()
		r.cache[name] = b
		r.mu.Unlock()
		logging.L().Info("backend loaded", "effect", name, "took", time.Since(start))
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(effect.Backend), nil
}

// Close releases every cached backend that holds external resources.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, b := range r.cache {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
