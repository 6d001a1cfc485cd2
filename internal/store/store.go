// SPDX-License-Identifier: Apache-2.0

// Package store reads catalog files and writes transform outputs.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
	"github.com/teplomarket/catalog-mcp/internal/logger"
)

// File is a loaded catalog document and the codec it was read with.
type File struct {
	Path     string
	Codec    codec.Codec
	Document *catalog.Document
}

// Output is a document to be written to Path. Format names the codec; when
// empty it is taken from the file extension and then from Fallback.
type Output struct {
	Path     string
	Format   string
	Document *catalog.Document
}

// ErrDuplicateOutput is returned by SaveAll when two outputs resolve to the
// same file.
var ErrDuplicateOutput = errors.New("two outputs share a path")

// Store loads and saves catalog documents through a codec registry.
type Store struct {
	registry *codec.Registry
	log      *logger.Logger
}

// New creates a Store. A nil registry means codec.Default and a nil logger
// discards output.
func New(registry *codec.Registry, log *logger.Logger) *Store {
	if registry == nil {
		registry = codec.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{registry: registry, log: log}
}

// Registry returns the codec registry the store uses.
func (s *Store) Registry() *codec.Registry {
	return s.registry
}

// Load reads and decodes the file at path.
func (s *Store) Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	doc, c, err := s.registry.Decode(codec.Source{
		Content: content,
		Format:  codec.FormatFromPath(path),
		Name:    filepath.Base(path),
	})
	if err != nil {
		return nil, err
	}
	s.log.StoreLogger(path).LogLoad(path, c.Name(), doc)
	return &File{Path: path, Codec: c, Document: doc}, nil
}

// Encode renders doc with the codec named format, or JSON when format is
// empty.
func (s *Store) Encode(doc *catalog.Document, format string) ([]byte, error) {
	if format == "" {
		format = "json"
	}
	c, err := s.registry.ByName(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(doc)
}

// SaveAll writes every output or none of them. All documents are encoded
// before anything touches the disk; each is then written to a temporary file
// next to its destination and the temporaries are renamed into place only
// after every write succeeded. Outputs resolving to the same file fail with
// ErrDuplicateOutput.
func (s *Store) SaveAll(outputs ...Output) error {
	type pending struct {
		path string
		data []byte
		tmp  string
	}
	seen := make(map[string]string, len(outputs))
	for _, out := range outputs {
		if out.Path == "" {
			return errors.New("save catalog: output path is empty")
		}
		key := cleanPath(out.Path)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("save catalog: %w: %s and %s", ErrDuplicateOutput, prev, out.Path)
		}
		seen[key] = out.Path
	}
	files := make([]*pending, 0, len(outputs))
	for _, out := range outputs {
		format := out.Format
		if format == "" {
			format = codec.FormatFromPath(out.Path)
		}
		data, err := s.Encode(out.Document, format)
		if err != nil {
			return fmt.Errorf("encode %s: %w", out.Path, err)
		}
		files = append(files, &pending{path: out.Path, data: data})
	}

	cleanup := func() {
		for _, f := range files {
			if f.tmp != "" {
				_ = os.Remove(f.tmp)
			}
		}
	}
	for _, f := range files {
		tmp, err := writeTemp(f.path, f.data)
		if err != nil {
			cleanup()
			return fmt.Errorf("write %s: %w", f.path, err)
		}
		f.tmp = tmp
	}
	for i, f := range files {
		start := time.Now()
		if err := os.Rename(f.tmp, f.path); err != nil {
			for _, rest := range files[i:] {
				_ = os.Remove(rest.tmp)
			}
			return fmt.Errorf("replace %s: %w", f.path, err)
		}
		s.log.StoreLogger(f.path).Debug().Dur("duration_ms", time.Since(start)).Msg("Renamed into place")
		s.log.StoreLogger(f.path).LogSave(f.path, len(f.data))
	}
	return nil
}

func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func writeTemp(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
