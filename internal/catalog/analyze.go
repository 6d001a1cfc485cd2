// SPDX-License-Identifier: Apache-2.0

package catalog

import "sort"

// DefaultSampleSize is how many records Analyze looks at by default.
const DefaultSampleSize = 5

const maxSampleValues = 3

// KeyStats summarises one field across the sampled records.
type KeyStats struct {
	Key     string   `json:"key"`
	Count   int      `json:"count"`
	Type    string   `json:"type"`
	Samples []string `json:"samples"`
}

// Analysis summarises the structure of a document.
type Analysis struct {
	Shape   string     `json:"shape"`
	Total   int        `json:"total"`
	Records int        `json:"records"`
	Keys    []KeyStats `json:"keys"`
}

// Analyze reports the shape and size of d and per-field statistics over its
// first sample records. Fields are listed in first-seen order; the type is
// that of the first value seen.
func Analyze(d *Document, sample int) Analysis {
	if sample <= 0 {
		sample = DefaultSampleSize
	}
	records := d.Records()
	a := Analysis{Shape: d.Shape().String(), Total: d.Len(), Records: len(records)}
	index := make(map[string]int)
	for i, e := range records {
		if i == sample {
			break
		}
		e.Record.Range(func(k string, v any) bool {
			pos, ok := index[k]
			if !ok {
				pos = len(a.Keys)
				index[k] = pos
				a.Keys = append(a.Keys, KeyStats{Key: k, Type: TypeName(v)})
			}
			st := &a.Keys[pos]
			st.Count++
			s := Stringify(v)
			if len(st.Samples) < maxSampleValues && !containsString(st.Samples, s) {
				st.Samples = append(st.Samples, s)
			}
			return true
		})
	}
	return a
}

// DistinctValues returns the sorted distinct stringified values of key across
// all top-level records.
func DistinctValues(d *Document, key string) []string {
	set := make(map[string]struct{})
	for _, e := range d.Records() {
		if v, ok := e.Record.Get(key); ok {
			set[Stringify(v)] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
