package scanner

import (
	"fmt"

	"EventScanner/internal/ports"
)

// Registry keeps a mapping from source names to their implementations,
// so other community platforms can be plugged in alongside HoYoLAB.
type Registry struct {
	sources map[string]ports.ArticleSource
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.ArticleSource{}}
}

// Register adds or replaces a source implementation under a name.
func (r *Registry) Register(name string, source ports.ArticleSource) {
	if r.sources == nil {
		r.sources = map[string]ports.ArticleSource{}
	}
	r.sources[name] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.ArticleSource, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("article source %s is not registered", name)
}
