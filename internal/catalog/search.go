// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Criteria selects records whose field Key stringifies to Value.
type Criteria struct {
	Key           string
	Value         string
	CaseSensitive bool
}

// Search scans the top-level records of d and returns those matching c, in
// document order. Records without the key are not matches.
func Search(d *Document, c Criteria) []Entry {
	norm := func(s string) string { return s }
	if !c.CaseSensitive {
		lower := cases.Lower(language.Und)
		norm = lower.String
	}
	want := norm(c.Value)
	var found []Entry
	for _, e := range d.Records() {
		v, ok := e.Record.Get(c.Key)
		if !ok {
			continue
		}
		if norm(Stringify(v)) == want {
			found = append(found, e)
		}
	}
	return found
}

// IDs returns the identifiers of entries.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
