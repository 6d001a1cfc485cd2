// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"sort"
)

// RenameTable maps old field names to new ones.
type RenameTable map[string]string

// Validate fails with ErrRemapCollision when two old names map to the same
// new name.
func (t RenameTable) Validate() error {
	olds := make([]string, 0, len(t))
	for old := range t {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	seen := make(map[string]string, len(t))
	for _, old := range olds {
		nw := t[old]
		if prev, ok := seen[nw]; ok {
			return fmt.Errorf("%w: %q and %q both rename to %q", ErrRemapCollision, prev, old, nw)
		}
		seen[nw] = old
	}
	return nil
}

// Invert swaps the direction of the table, for files that list new names as
// keys. Two entries sharing a value fail with ErrRemapCollision.
func (t RenameTable) Invert() (RenameTable, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	inv := make(RenameTable, len(t))
	for old, nw := range t {
		inv[nw] = old
	}
	return inv, nil
}

// RemapKeys renames the fields of every record in d according to table,
// descending into nested mappings and sequences. Unmapped fields keep their
// names. A record never loses a field: when a rename would land on a name the
// record already uses, that field keeps its old name and a conflict is
// reported.
func RemapKeys(d *Document, table RenameTable) (*Result, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	report := newReport("remap-keys")
	out, err := Walk(d, func(path Path, rec *Object) (*Object, error) {
		names, conflicts := renameFields(rec.keys, table)
		for _, k := range conflicts {
			report.skip("", path, "field %q not renamed to %q: name already in use", k, table[k])
		}
		changed := false
		renamed := NewObject(rec.Len())
		for i, k := range rec.keys {
			if names[i] != k {
				changed = true
			}
			renamed.Set(names[i], rec.values[k])
		}
		if changed {
			report.Processed++
		}
		return renamed, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Document: out, Report: report}, nil
}

// renameFields returns the new name of each key and the mapped keys that had
// to keep their old name.
func renameFields(keys []string, table RenameTable) ([]string, []string) {
	names := make([]string, len(keys))
	for i, k := range keys {
		if nw, ok := table[k]; ok {
			names[i] = nw
		} else {
			names[i] = k
		}
	}
	reverted := make(map[int]bool)
	for {
		count := make(map[string]int, len(names))
		for _, n := range names {
			count[n]++
		}
		progress := false
		for i, k := range keys {
			if names[i] != k && count[names[i]] > 1 {
				names[i] = k
				reverted[i] = true
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	var conflicts []string
	for i, k := range keys {
		if reverted[i] {
			conflicts = append(conflicts, k)
		}
	}
	return names, conflicts
}
