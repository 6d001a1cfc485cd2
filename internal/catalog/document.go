// SPDX-License-Identifier: Apache-2.0

// Package catalog normalizes and reshapes product catalogs held as JSON
// documents: a mapping of records keyed by identifier, or a sequence of records.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the top-level layout of a Document.
type Shape int

const (
	// Keyed documents map an identifier to each record.
	Keyed Shape = iota + 1
	// Indexed documents hold records in a sequence; the position is the
	// identifier.
	Indexed
)

func (s Shape) String() string {
	switch s {
	case Keyed:
		return "keyed"
	case Indexed:
		return "indexed"
	}
	return "unknown"
}

// indexPrefix prefixes the synthetic identifiers of Indexed documents.
const indexPrefix = "index_"

// Document is a loaded catalog. Its shape is fixed at construction.
//
// Operations never modify a Document they are given; they return a new one.
type Document struct {
	shape Shape
	keyed *Object
	items []any
}

// Entry is one record of a Document together with its identifier and path.
type Entry struct {
	ID     string
	Path   Path
	Record *Object
}

// NewDocument wraps a decoded root value. The root must be an *Object or a
// []any; anything else is ErrUnsupportedShape. The document takes ownership
// of root.
func NewDocument(root any) (*Document, error) {
	switch t := root.(type) {
	case *Object:
		if t == nil {
			t = NewObject(0)
		}
		return &Document{shape: Keyed, keyed: t}, nil
	case []any:
		if t == nil {
			t = []any{}
		}
		return &Document{shape: Indexed, items: t}, nil
	}
	return nil, fmt.Errorf("%w: got %s", ErrUnsupportedShape, TypeName(root))
}

// NewKeyed returns an empty keyed document.
func NewKeyed() *Document {
	return &Document{shape: Keyed, keyed: NewObject(0)}
}

// Shape reports whether the document is Keyed or Indexed.
func (d *Document) Shape() Shape { return d.shape }

// Root returns the underlying root value, an *Object or a []any.
func (d *Document) Root() any {
	if d.shape == Keyed {
		return d.keyed
	}
	return d.items
}

// Len returns the number of top-level entries, records or not.
func (d *Document) Len() int {
	if d.shape == Keyed {
		return d.keyed.Len()
	}
	return len(d.items)
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	if d.shape == Keyed {
		return &Document{shape: Keyed, keyed: d.keyed.Clone()}
	}
	return &Document{shape: Indexed, items: CloneValue(d.items).([]any)}
}

// Equal reports whether both documents have the same shape and contents.
func (d *Document) Equal(other *Document) bool {
	if other == nil || d.shape != other.shape {
		return false
	}
	return EqualValues(d.Root(), other.Root())
}

// Records enumerates the top-level records in document order. Top-level
// values that are not mappings are not records and are left out.
func (d *Document) Records() []Entry {
	entries := make([]Entry, 0, d.Len())
	if d.shape == Keyed {
		d.keyed.Range(func(k string, v any) bool {
			if rec, ok := v.(*Object); ok {
				entries = append(entries, Entry{ID: k, Path: Path("").Key(k), Record: rec})
			}
			return true
		})
		return entries
	}
	for i, v := range d.items {
		if rec, ok := v.(*Object); ok {
			entries = append(entries, Entry{ID: IndexID(i), Path: Path("").Index(i), Record: rec})
		}
	}
	return entries
}

// Get returns the record stored under id. The record is the document's own;
// callers that want to change it must Clone it first.
func (d *Document) Get(id string) (*Object, error) {
	var v any
	if d.shape == Keyed {
		var ok bool
		if v, ok = d.keyed.Get(id); !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
	} else {
		i, err := d.position(id)
		if err != nil {
			return nil, err
		}
		v = d.items[i]
	}
	rec, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %s", ErrNotFound, id, TypeName(v))
	}
	return rec, nil
}

// Set returns a copy of the document with rec stored under id. Other records
// are shared with d, not copied. On a keyed document an unknown id appends a
// new entry; on an indexed document it fails with ErrOutOfRange and d is left
// as it was.
func (d *Document) Set(id string, rec *Object) (*Document, error) {
	if d.shape == Keyed {
		out := &Document{shape: Keyed, keyed: d.keyed.shallowClone()}
		out.keyed.Set(id, rec)
		return out, nil
	}
	i, err := d.position(id)
	if err != nil {
		return nil, err
	}
	items := append([]any(nil), d.items...)
	items[i] = rec
	return &Document{shape: Indexed, items: items}, nil
}

// replace stores rec under id in place. Used by operations on their own copy.
func (d *Document) replace(id string, rec *Object) {
	if d.shape == Keyed {
		d.keyed.Set(id, rec)
		return
	}
	if i, err := d.position(id); err == nil {
		d.items[i] = rec
	}
}

func (d *Document) position(id string) (int, error) {
	raw, ok := strings.CutPrefix(id, indexPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a positional identifier", ErrNotFound, id)
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a positional identifier", ErrNotFound, id)
	}
	if i < 0 || i >= len(d.items) {
		return 0, fmt.Errorf("%w: %q (document has %d entries)", ErrOutOfRange, id, len(d.items))
	}
	return i, nil
}

// IndexID returns the synthetic identifier of position i in an Indexed
// document.
func IndexID(i int) string {
	return indexPrefix + strconv.Itoa(i)
}
