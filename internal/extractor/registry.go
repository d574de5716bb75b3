package extractor

import (
	"fmt"
	"sort"

	"CaseLawSearch/internal/ports"
)

const (
	// KindHTML scrapes the public search page.
	KindHTML = "html"
	// KindAPI calls the token-authenticated JSON API.
	KindAPI = "api"
)

// Registry keeps a mapping from source kinds to their extractors.
type Registry struct {
	extractors map[string]ports.Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]ports.Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(ex ports.Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]ports.Extractor{}
	}
	r.extractors[ex.Kind()] = ex
}

// Resolve returns an extractor by kind or an error if it is absent.
func (r *Registry) Resolve(kind string) (ports.Extractor, error) {
	if ex, ok := r.extractors[kind]; ok {
		return ex, nil
	}
	return nil, fmt.Errorf("extractor %s is not registered (have %v)", kind, r.Kinds())
}

// Kinds lists registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
