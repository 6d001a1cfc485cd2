// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
)

// MigrateOptions configures MigrateField and MergeField.
type MigrateOptions struct {
	// IDField names the identifier field. Empty means DefaultIDField.
	IDField string
	// SkipNull leaves fields holding null in place instead of migrating them.
	SkipNull bool
}

func (o MigrateOptions) idField() string {
	if o.IDField == "" {
		return DefaultIDField
	}
	return o.IDField
}

// MigrateField moves field out of every top-level record of d into a sibling
// dataset keyed by the record's identifier. The identifier is the record's
// identifier field; records without one fall back to their key in a Keyed
// document. Records with no usable identifier, or whose identifier is shared
// with another record, keep the field and are reported as skipped; run
// ResolveDuplicates first to migrate those.
//
// Running MigrateField again on the returned document yields an empty
// sibling and an equal document.
func MigrateField(d *Document, field string, opts MigrateOptions) (*Result, error) {
	if field == "" {
		return nil, errors.New("migrate-field: field name is required")
	}
	report := newReport("migrate-field")
	out := d.Clone()
	sibling := NewKeyed()
	records := out.Records()
	// Shared identifiers are counted over every record, with or without the
	// field, so a re-run skips the same records.
	uses := make(map[string]int, len(records))
	for _, e := range records {
		if id, err := recordID(out, e, opts.idField()); err == nil {
			uses[id]++
		}
	}
	for _, e := range records {
		v, ok := e.Record.Get(field)
		if !ok || (opts.SkipNull && v == nil) {
			continue
		}
		id, err := recordID(out, e, opts.idField())
		if err != nil {
			report.skip(e.ID, e.Path, "%s not migrated: %v", field, err)
			continue
		}
		if uses[id] > 1 {
			report.skip(id, e.Path, "%s not migrated: identifier %q is shared by %d records", field, id, uses[id])
			continue
		}
		e.Record.Delete(field)
		sibling.keyed.Set(id, v)
		report.done(EventMigrated, id, e.Path, "%s %s moved to sibling", field, Stringify(v))
	}
	return &Result{Document: out, Sibling: sibling, Report: report}, nil
}

// MergeField is the inverse of MigrateField: it copies every sibling value
// back into the record with the matching identifier. Sibling entries without
// a matching record are reported as skipped.
func MergeField(d, sibling *Document, field string, opts MigrateOptions) (*Result, error) {
	if field == "" {
		return nil, errors.New("merge-field: field name is required")
	}
	if sibling.Shape() != Keyed {
		return nil, fmt.Errorf("merge-field: sibling: %w: got %s", ErrUnsupportedShape, sibling.Shape())
	}
	report := newReport("merge-field")
	out := d.Clone()
	matched := make(map[string]bool)
	for _, e := range out.Records() {
		id, err := recordID(out, e, opts.idField())
		if err != nil {
			continue
		}
		v, ok := sibling.keyed.Get(id)
		if !ok || matched[id] {
			continue
		}
		matched[id] = true
		e.Record.Set(field, CloneValue(v))
		report.done(EventMigrated, id, e.Path, "%s restored from sibling", field)
	}
	sibling.keyed.Range(func(id string, _ any) bool {
		if !matched[id] {
			report.skip(id, "", "no record with identifier %q", id)
		}
		return true
	})
	return &Result{Document: out, Report: report}, nil
}

func recordID(d *Document, e Entry, field string) (string, error) {
	if v, ok := e.Record.Get(field); ok {
		text, _, err := identifier(v)
		if err != nil {
			return "", err
		}
		return text, nil
	}
	if d.Shape() == Keyed {
		return e.ID, nil
	}
	return "", fmt.Errorf("%w: record has no %q field", ErrNotFound, field)
}
