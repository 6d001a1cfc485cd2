// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
)

// YAMLCodec reads and writes catalogs as YAML. Mappings are decoded in
// document order.
type YAMLCodec struct{}

func NewYAML() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Name() string {
	return "yaml"
}

func (c *YAMLCodec) CanHandle(source Source) bool {
	switch strings.ToLower(source.Format) {
	case "yaml", "yml":
		return true
	case "":
	default:
		return false
	}
	content, err := trimContent(source.Content)
	if err != nil {
		return false
	}
	first := strings.SplitN(string(content), "\n", 2)[0]
	// A sequence of records, or a top-level key.
	if strings.HasPrefix(first, "- ") || first == "-" {
		return true
	}
	return strings.Contains(first, ":") && !strings.HasPrefix(first, "#")
}

func (c *YAMLCodec) Decode(source Source) (*catalog.Document, error) {
	content, err := trimContent(source.Content)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := yaml.UnmarshalWithOptions(content, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrParse, err)
	}
	root, err := fromYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrParse, err)
	}
	return catalog.NewDocument(root)
}

func (c *YAMLCodec) Encode(doc *catalog.Document) ([]byte, error) {
	out, err := yaml.Marshal(toYAML(doc.Root()))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return out, nil
}

func fromYAML(v any) (any, error) {
	switch t := v.(type) {
	case yaml.MapSlice:
		obj := catalog.NewObject(len(t))
		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil
	case map[string]any:
		// Only reached for maps the decoder did not order.
		obj := catalog.NewObject(len(t))
		for k, item := range t {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			obj.Set(k, val)
		}
		return obj, nil
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			items[i] = val
		}
		return items, nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case float64:
		return json.Number(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("unsupported YAML value %T", v)
}

func toYAML(v any) any {
	switch t := v.(type) {
	case *catalog.Object:
		ms := make(yaml.MapSlice, 0, t.Len())
		t.Range(func(k string, val any) bool {
			ms = append(ms, yaml.MapItem{Key: k, Value: toYAML(val)})
			return true
		})
		return ms
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = toYAML(item)
		}
		return items
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}
