// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strconv"
)

// DefaultIDField is the record field that holds a record's identifier.
const DefaultIDField = "id"

// DedupeOptions configures ResolveDuplicates.
type DedupeOptions struct {
	// IDField names the identifier field. Empty means DefaultIDField.
	IDField string
}

type occurrence struct {
	seq  int
	path Path
}

type idGroup struct {
	text        string
	occurrences []occurrence
}

// ResolveDuplicates makes the identifier field unique across every record in
// d. The first occurrence of a value keeps it; later occurrences get
// "<value>_<n>" where n is the occurrence's position in its group (1 for the
// second). A suffix already used elsewhere in the document is skipped by
// bumping n. Running it on its own output changes nothing.
//
// An identifier that is not a string or a number fails the whole run with
// ErrUnsupportedIdentifierType before anything is rewritten.
func ResolveDuplicates(d *Document, opts DedupeOptions) (*Result, error) {
	field := opts.IDField
	if field == "" {
		field = DefaultIDField
	}
	report := newReport("dedupe-ids")

	groups := make(map[string]*idGroup)
	var order []string
	taken := make(map[string]struct{})
	seq := 0
	err := Inspect(d, func(path Path, rec *Object) error {
		seq++
		v, ok := rec.Get(field)
		if !ok {
			return nil
		}
		text, key, err := identifier(v)
		if err != nil {
			return fmt.Errorf("%s at %q: %w", field, path, err)
		}
		g, ok := groups[key]
		if !ok {
			g = &idGroup{text: text}
			groups[key] = g
			order = append(order, key)
		}
		g.occurrences = append(g.occurrences, occurrence{seq: seq, path: path})
		taken[text] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Paths can coincide when keys contain dots, so occurrences are matched
	// back by visit order; the path is kept for the report.
	renames := make(map[int]string)
	for _, key := range order {
		g := groups[key]
		for i := 1; i < len(g.occurrences); i++ {
			n := i
			candidate := g.text + "_" + strconv.Itoa(n)
			for {
				if _, used := taken[candidate]; !used {
					break
				}
				n++
				candidate = g.text + "_" + strconv.Itoa(n)
			}
			taken[candidate] = struct{}{}
			renames[g.occurrences[i].seq] = candidate
		}
	}
	if len(renames) == 0 {
		return &Result{Document: d.Clone(), Report: report}, nil
	}

	seq = 0
	out, err := Walk(d, func(path Path, rec *Object) (*Object, error) {
		seq++
		newID, ok := renames[seq]
		if !ok {
			return nil, nil
		}
		old, _ := rec.Get(field)
		rec.Set(field, newID)
		report.done(EventRenamed, newID, path, "%s %q -> %q", field, Stringify(old), newID)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Document: out, Report: report}, nil
}

// Duplicate is an identifier value that occurs more than once.
type Duplicate struct {
	ID    string
	Paths []Path
}

// DuplicateIDs lists the identifier values that occur more than once, with the
// paths of their occurrences, in first-seen order. It changes nothing.
func DuplicateIDs(d *Document, field string) ([]Duplicate, error) {
	if field == "" {
		field = DefaultIDField
	}
	index := make(map[string]int)
	var all []Duplicate
	err := Inspect(d, func(path Path, rec *Object) error {
		v, ok := rec.Get(field)
		if !ok {
			return nil
		}
		text, key, err := identifier(v)
		if err != nil {
			return fmt.Errorf("%s at %q: %w", field, path, err)
		}
		i, seen := index[key]
		if !seen {
			i = len(all)
			index[key] = i
			all = append(all, Duplicate{ID: text})
		}
		all[i].Paths = append(all[i].Paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	var dups []Duplicate
	for _, dup := range all {
		if len(dup.Paths) > 1 {
			dups = append(dups, dup)
		}
	}
	return dups, nil
}
