// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Object is a JSON mapping that remembers the order its keys were added in.
//
// Values are one of string, json.Number, bool, nil, *Object or []any.
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object with room for n fields.
func NewObject(n int) *Object {
	return &Object{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// ObjectOf builds an object from alternating key/value arguments. It is meant
// for literals in code and tests; an odd argument count or a non-string key
// panics.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("catalog: ObjectOf needs key/value pairs")
	}
	o := NewObject(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("catalog: ObjectOf key %v is not a string", kv[i]))
		}
		o.Set(k, normalize(kv[i+1]))
	}
	return o
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the field names in order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil || o.values == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Range calls fn for every field in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := NewObject(len(o.keys))
	for _, k := range o.keys {
		c.keys = append(c.keys, k)
		c.values[k] = CloneValue(o.values[k])
	}
	return c
}

// shallowClone copies the field list but shares nested containers.
func (o *Object) shallowClone() *Object {
	c := NewObject(len(o.keys))
	for _, k := range o.keys {
		c.keys = append(c.keys, k)
		c.values[k] = o.values[k]
	}
	return c
}

// Equal reports whether both objects hold the same fields with equal values,
// ignoring field order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, k := range o.keys {
		ov, ok := other.Get(k)
		if !ok || !EqualValues(o.values[k], ov) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the object compactly, keeping field order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CloneValue deep-copies a document value. Scalars are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		c := make([]any, len(t))
		for i, item := range t {
			c[i] = CloneValue(item)
		}
		return c
	default:
		return v
	}
}

// EqualValues compares two document values structurally. Objects compare
// without regard to field order; numbers compare by literal.
func EqualValues(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !EqualValues(x[i], y[i]) {
				return false
			}
		}
		return true
	case json.Number:
		y, ok := b.(json.Number)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case nil:
		return b == nil
	}
	return false
}

// normalize converts Go literals used with ObjectOf into document values.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return json.Number(fmt.Sprint(t))
	case int64:
		return json.Number(fmt.Sprint(t))
	case float64:
		return json.Number(formatFloat(t))
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

func appendJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Object:
		buf.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.MarshalNoEscape(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := appendJSON(buf, t.values[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		if t == "" {
			buf.WriteByte('0')
			return nil
		}
		buf.WriteString(string(t))
	case nil:
		buf.WriteString("null")
	default:
		b, err := json.MarshalNoEscape(t)
		if err != nil {
			return fmt.Errorf("encode %T: %w", v, err)
		}
		buf.Write(b)
	}
	return nil
}
