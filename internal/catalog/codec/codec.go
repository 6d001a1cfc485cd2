// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"strings"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
)

// Source is the raw text of a catalog document.
type Source struct {
	// Content is the raw document content.
	Content []byte
	Format  string
	Name    string
}

// Codec turns catalog text into a Document and back.
type Codec interface {
	CanHandle(source Source) bool
	Decode(source Source) (*catalog.Document, error)
	Encode(doc *catalog.Document) ([]byte, error)
	Name() string
}

// Registry picks a codec for a source.
type Registry struct {
	codecs []Codec
}

// NewRegistry creates a Registry trying codecs in the given order.
func NewRegistry(codecs ...Codec) *Registry {
	return &Registry{codecs: codecs}
}

// Default returns a registry with JSON ahead of YAML. JSON is tried first
// because every JSON document is also valid YAML.
func Default() *Registry {
	return NewRegistry(NewJSON(), NewYAML())
}

// Select returns the first registered codec that can handle the source.
func (r *Registry) Select(source Source) (Codec, error) {
	for _, c := range r.codecs {
		if c.CanHandle(source) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unsupported catalog format: no codec found for %q (format hint: %q)", source.Name, source.Format)
}

// ByName returns the codec registered under name.
func (r *Registry) ByName(name string) (Codec, error) {
	for _, c := range r.codecs {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unsupported catalog format %q", name)
}

// Decode selects a codec and decodes the source with it.
func (r *Registry) Decode(source Source) (*catalog.Document, Codec, error) {
	if _, err := trimContent(source.Content); err != nil {
		return nil, nil, fmt.Errorf("%q: %w", source.Name, err)
	}
	c, err := r.Select(source)
	if err != nil {
		return nil, nil, err
	}
	doc, err := c.Decode(source)
	if err != nil {
		return nil, nil, fmt.Errorf("codec %q failed on %q: %w", c.Name(), source.Name, err)
	}
	return doc, c, nil
}

// Names returns the names of all registered codecs.
func (r *Registry) Names() []string {
	names := make([]string, len(r.codecs))
	for i, c := range r.codecs {
		names[i] = c.Name()
	}
	return names
}

// FormatFromPath guesses a format hint from a file extension.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return "json"
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return "yaml"
	}
	return ""
}

// trimContent strips a UTF-8 byte order mark and surrounding whitespace, and
// fails with ErrEmptyInput on blank content.
func trimContent(content []byte) ([]byte, error) {
	s := strings.TrimPrefix(string(content), "\ufeff")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, catalog.ErrEmptyInput
	}
	return []byte(s), nil
}
