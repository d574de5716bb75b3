// Package acts holds the statute registry used for act detection in case
// snippets and for the act-search endpoint.
package acts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

//go:embed acts.yaml
var defaultRegistry []byte

// separator joins scanned fields so no act name can match across them.
const separator = "\x00"

// Act is one registry entry.
type Act struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type registryFile struct {
	Version int   `yaml:"version"`
	Acts    []Act `yaml:"acts"`
}

// Registry is an immutable, ordered set of acts. Safe for concurrent use.
type Registry struct {
	version int
	acts    []Act
	matcher *ahocorasick.Matcher
}

// Default returns the registry embedded in the binary.
func Default() *Registry {
	reg, err := Parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("embedded act registry: %v", err))
	}
	return reg
}

// Load reads a registry file; an empty path yields the embedded default.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read act registry %s: %w", path, err)
	}
	reg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("act registry %s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes registry YAML. Blank names are rejected, duplicates keep the first entry.
func Parse(raw []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(file.Acts) == 0 {
		return nil, fmt.Errorf("no acts defined")
	}
	return New(file.Version, file.Acts)
}

// New builds a registry from acts in the given order.
func New(version int, list []Act) (*Registry, error) {
	seen := make(map[string]struct{}, len(list))
	acts := make([]Act, 0, len(list))
	for i, act := range list {
		act.Name = strings.TrimSpace(act.Name)
		act.URL = strings.TrimSpace(act.URL)
		if act.Name == "" {
			return nil, fmt.Errorf("act #%d has no name", i+1)
		}
		key := strings.ToLower(act.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		acts = append(acts, act)
	}

	patterns := make([]string, len(acts))
	for i, act := range acts {
		patterns[i] = strings.ToLower(act.Name)
	}

	return &Registry{
		version: version,
		acts:    acts,
		matcher: ahocorasick.NewStringMatcher(patterns),
	}, nil
}

// Version identifies the registry artifact.
func (r *Registry) Version() int {
	return r.version
}

// Acts returns a copy of the entries in registry order.
func (r *Registry) Acts() []Act {
	out := make([]Act, len(r.acts))
	copy(out, r.acts)
	return out
}

// Names returns act names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.acts))
	for i, act := range r.acts {
		names[i] = act.Name
	}
	return names
}

// Detect returns, in registry order, every act whose name occurs
// case-insensitively in any of texts.
func (r *Registry) Detect(texts ...string) []string {
	if len(r.acts) == 0 {
		return nil
	}
	haystack := strings.ToLower(strings.Join(texts, separator))
	hits := r.matcher.MatchThreadSafe([]byte(haystack))
	if len(hits) == 0 {
		return nil
	}

	found := make([]bool, len(r.acts))
	for _, idx := range hits {
		if idx >= 0 && idx < len(found) {
			found[idx] = true
		}
	}

	detected := make([]string, 0, len(hits))
	for i, ok := range found {
		if ok {
			detected = append(detected, r.acts[i].Name)
		}
	}
	return detected
}

// Suggest returns acts whose name contains keyword (case-insensitive).
func (r *Registry) Suggest(keyword string) []Act {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	var out []Act
	for _, act := range r.acts {
		if strings.Contains(strings.ToLower(act.Name), keyword) {
			out = append(out, act)
		}
	}
	return out
}

// Lookup finds an act by exact name, ignoring case.
func (r *Registry) Lookup(name string) (Act, bool) {
	for _, act := range r.acts {
		if strings.EqualFold(act.Name, strings.TrimSpace(name)) {
			return act, true
		}
	}
	return Act{}, false
}
