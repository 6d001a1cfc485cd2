// SPDX-License-Identifier: Apache-2.0

package catalog

// VisitFunc transforms one record. rec is a private copy of the record's own
// field list; nested containers are still shared with the input, so a visitor
// that changes a nested value must store a new value rather than edit the old
// one in place. Returning a nil record keeps rec. Returning an error stops the
// walk.
type VisitFunc func(path Path, rec *Object) (*Object, error)

// InspectFunc observes one record without changing it.
type InspectFunc func(path Path, rec *Object) error

// Walk rebuilds d by applying visit to every record reachable through
// mappings and sequences, in document order, and returns the new document.
// A record is visited before its children; the children walked are those of
// the record visit returned. The root mapping of a Keyed document is the
// collection, not a record, and is not passed to visit.
func Walk(d *Document, visit VisitFunc) (*Document, error) {
	if d.shape == Keyed {
		root := NewObject(d.keyed.Len())
		var err error
		d.keyed.Range(func(k string, v any) bool {
			var nv any
			nv, err = walkValue(v, Path("").Key(k), visit)
			if err != nil {
				return false
			}
			root.Set(k, nv)
			return true
		})
		if err != nil {
			return nil, err
		}
		return &Document{shape: Keyed, keyed: root}, nil
	}
	v, err := walkValue(d.items, "", visit)
	if err != nil {
		return nil, err
	}
	return &Document{shape: Indexed, items: v.([]any)}, nil
}

// WalkValue applies visit to every record inside v, as Walk does, treating v
// itself as a record when it is a mapping.
func WalkValue(v any, path Path, visit VisitFunc) (any, error) {
	return walkValue(v, path, visit)
}

func walkValue(v any, path Path, visit VisitFunc) (any, error) {
	switch t := v.(type) {
	case *Object:
		rec := t.shallowClone()
		out, err := visit(path, rec)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = rec
		}
		for _, k := range out.keys {
			nv, err := walkValue(out.values[k], path.Key(k), visit)
			if err != nil {
				return nil, err
			}
			out.values[k] = nv
		}
		return out, nil
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			nv, err := walkValue(item, path.Index(i), visit)
			if err != nil {
				return nil, err
			}
			items[i] = nv
		}
		return items, nil
	default:
		return v, nil
	}
}

// Inspect calls fn for every record in d in the same order and with the same
// paths as Walk, without copying anything.
func Inspect(d *Document, fn InspectFunc) error {
	if d.shape == Keyed {
		var err error
		d.keyed.Range(func(k string, v any) bool {
			err = inspectValue(v, Path("").Key(k), fn)
			return err == nil
		})
		return err
	}
	return inspectValue(d.items, "", fn)
}

func inspectValue(v any, path Path, fn InspectFunc) error {
	switch t := v.(type) {
	case *Object:
		if err := fn(path, t); err != nil {
			return err
		}
		for _, k := range t.keys {
			if err := inspectValue(t.values[k], path.Key(k), fn); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range t {
			if err := inspectValue(item, path.Index(i), fn); err != nil {
				return err
			}
		}
	}
	return nil
}
