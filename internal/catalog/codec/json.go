// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
)

// JSONCodec reads and writes catalogs as JSON, keeping field order and
// number literals. Output is indented by two spaces and not HTML-escaped.
type JSONCodec struct{}

func NewJSON() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Name() string {
	return "json"
}

// CanHandle returns true for a "json" format hint, or when the content opens
// with '{' or '['.
func (c *JSONCodec) CanHandle(source Source) bool {
	if source.Format != "" {
		return strings.EqualFold(source.Format, "json")
	}
	content, err := trimContent(source.Content)
	if err != nil {
		return false
	}
	return content[0] == '{' || content[0] == '['
}

func (c *JSONCodec) Decode(source Source) (*catalog.Document, error) {
	content, err := trimContent(source.Content)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrParse, err)
	}
	root, err := decodeValue(dec, tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the top-level value", catalog.ErrParse)
	}
	return catalog.NewDocument(root)
}

func (c *JSONCodec) Encode(doc *catalog.Document) ([]byte, error) {
	out, err := catalog.EncodeIndent(doc.Root(), "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// decodeValue builds a document value from the token stream, starting at tok.
func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := catalog.NewObject(0)
			for {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := kt.(json.Delim); ok && d == '}' {
					return obj, nil
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not a string", kt)
				}
				vt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				v, err := decodeValue(dec, vt)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
		case '[':
			items := []any{}
			for {
				it, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := it.(json.Delim); ok && d == ']' {
					return items, nil
				}
				v, err := decodeValue(dec, it)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return t, nil
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}
