// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// TypeName names the JSON type of a document value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	case *Object:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// Stringify renders a value the way search criteria see it: strings verbatim,
// numbers by their literal, booleans and null as in JSON, containers as
// compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	}
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return fmt.Sprint(v)
	}
	return buf.String()
}

// identifier turns an identifier field value into its text form and a key
// that keeps strings and numbers with the same text apart.
func identifier(v any) (text, key string, err error) {
	switch t := v.(type) {
	case string:
		return t, "s:" + t, nil
	case json.Number:
		return t.String(), "n:" + t.String(), nil
	}
	return "", "", fmt.Errorf("%w: got %s", ErrUnsupportedIdentifierType, TypeName(v))
}

// EncodeCompact renders a document value as compact JSON with field order
// kept and without HTML escaping.
func EncodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeIndent renders a document value as JSON with one field or element per
// line, each level indented by indent. Empty containers stay on one line.
func EncodeIndent(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendIndented(&buf, v, indent, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendIndented(buf *bytes.Buffer, v any, indent string, depth int) error {
	newline := func(d int) {
		buf.WriteByte('\n')
		for i := 0; i < d; i++ {
			buf.WriteString(indent)
		}
	}
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			kb, err := json.MarshalNoEscape(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteString(": ")
			if err := appendIndented(buf, t.values[k], indent, depth+1); err != nil {
				return err
			}
		}
		newline(depth)
		buf.WriteByte('}')
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			if err := appendIndented(buf, item, indent, depth+1); err != nil {
				return err
			}
		}
		newline(depth)
		buf.WriteByte(']')
	default:
		return appendJSON(buf, v)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
