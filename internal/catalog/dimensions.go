// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// DimensionLabels names the fields RepairDimensions writes the three measures
// to.
type DimensionLabels struct {
	Length string
	Width  string
	Height string
}

// DefaultDimensionLabels are the catalog's own field names.
var DefaultDimensionLabels = DimensionLabels{Length: "Длина", Width: "Ширина", Height: "Высота"}

// CompositeKey is a field whose name swallowed part of its value, such as
// "Габариты, x 300 x 200" holding 600.
type CompositeKey struct {
	Path  Path
	Key   string
	Value any
}

var dimensionNumber = regexp.MustCompile(`\d+\.?\d*`)

// isCompositeKey matches a comma followed by a Latin or Cyrillic "x".
func isCompositeKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, ", x") || strings.Contains(lower, ", х")
}

// FindCompositeKeys lists every composite key in d without changing it.
func FindCompositeKeys(d *Document) []CompositeKey {
	var found []CompositeKey
	_ = Inspect(d, func(path Path, rec *Object) error {
		rec.Range(func(k string, v any) bool {
			if isCompositeKey(k) {
				found = append(found, CompositeKey{Path: path, Key: k, Value: v})
			}
			return true
		})
		return nil
	})
	return found
}

// RepairDimensions rewrites every composite key of every record. The text
// before the comma names the parameter, the value is the length and the
// first two numbers after the comma are width and height. The parameter gets
// "LxWxH", the three measures get their own fields and the composite key is
// removed. Entries that cannot be parsed are left as they are and reported;
// entries whose target fields already exist are left as they are and
// reported as conflicts.
func RepairDimensions(d *Document, labels DimensionLabels) (*Result, error) {
	if labels == (DimensionLabels{}) {
		labels = DefaultDimensionLabels
	}
	report := newReport("repair-dimensions")
	out, err := Walk(d, func(path Path, rec *Object) (*Object, error) {
		for _, key := range rec.Keys() {
			if !isCompositeKey(key) {
				continue
			}
			v, _ := rec.Get(key)
			param, dims, err := splitDimensions(key, v)
			if err != nil {
				report.skip("", path, "%q left as is: %v", key, err)
				continue
			}
			if taken := occupied(rec, param, labels.Length, labels.Width, labels.Height); taken != "" {
				report.conflict("", path, "%q left as is: field %q already exists", key, taken)
				continue
			}
			joined := formatFloat(dims[0]) + "x" + formatFloat(dims[1]) + "x" + formatFloat(dims[2])
			rec.Set(param, joined)
			rec.Set(labels.Length, json.Number(formatFloat(dims[0])))
			rec.Set(labels.Width, json.Number(formatFloat(dims[1])))
			rec.Set(labels.Height, json.Number(formatFloat(dims[2])))
			rec.Delete(key)
			report.done(EventRepaired, "", path, "%q -> %q: %q", key, param, joined)
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Document: out, Report: report}, nil
}

// occupied returns the first of names already present in rec.
func occupied(rec *Object, names ...string) string {
	for _, n := range names {
		if rec.Has(n) {
			return n
		}
	}
	return ""
}

func splitDimensions(key string, v any) (string, [3]float64, error) {
	var dims [3]float64
	head, rest, _ := strings.Cut(key, ",")
	param := strings.TrimSpace(head)
	if param == "" {
		return "", dims, fmt.Errorf("no parameter name before the comma")
	}
	rest = strings.NewReplacer("х", "x", "Х", "x").Replace(strings.TrimSpace(rest))
	nums := dimensionNumber.FindAllString(rest, -1)
	if len(nums) < 2 {
		return "", dims, fmt.Errorf("expected two numbers after the comma, found %d", len(nums))
	}
	length, err := measure(v)
	if err != nil {
		return "", dims, err
	}
	dims[0] = length
	for i := 0; i < 2; i++ {
		if dims[i+1], err = strconv.ParseFloat(nums[i], 64); err != nil {
			return "", dims, err
		}
	}
	return param, dims, nil
}

func measure(v any) (float64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", t)
		}
		return f, nil
	}
	return 0, fmt.Errorf("value is %s, not a number", TypeName(v))
}
