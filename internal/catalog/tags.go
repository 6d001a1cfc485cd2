// SPDX-License-Identifier: Apache-2.0

package catalog

import "errors"

// DefaultTagField is the list field AddTags writes to.
const DefaultTagField = "categories"

// TagOptions configures AddTags.
type TagOptions struct {
	// Field is the list-valued field to add to. Empty means DefaultTagField.
	Field string
}

// AddTags appends every tag not already present to the list field of each
// record named in ids. A missing or null field becomes an empty list first;
// a scalar becomes a one-element list. Existing order is kept and no tag is
// added twice, so applying the same tags again changes nothing.
//
// Identifiers that do not resolve, and records whose field holds a mapping,
// are reported as skipped.
func AddTags(d *Document, ids []string, tags []string, opts TagOptions) (*Result, error) {
	if len(tags) == 0 {
		return nil, errors.New("add-tags: no tags given")
	}
	field := opts.Field
	if field == "" {
		field = DefaultTagField
	}
	report := newReport("add-tags")
	out := d.Clone()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		rec, err := out.Get(id)
		if err != nil {
			report.skip(id, "", "%v", err)
			continue
		}
		list, ok := tagList(rec, field)
		if !ok {
			report.skip(id, "", "%s holds an object, not a list", field)
			continue
		}
		var added []string
		for _, tag := range tags {
			if !containsTag(list, tag) {
				list = append(list, tag)
				added = append(added, tag)
			}
		}
		report.Processed++
		if len(added) > 0 || !isList(rec, field) {
			rec.Set(field, list)
		}
		if len(added) > 0 {
			report.add(EventTagged, id, "", "%s += %v", field, added)
		}
	}
	return &Result{Document: out, Report: report}, nil
}

// tagList returns a fresh copy of the record's list field, promoting absent,
// null and scalar values.
func tagList(rec *Object, field string) ([]any, bool) {
	v, ok := rec.Get(field)
	if !ok || v == nil {
		return []any{}, true
	}
	switch t := v.(type) {
	case []any:
		return append([]any(nil), t...), true
	case *Object:
		return nil, false
	default:
		return []any{t}, true
	}
}

func isList(rec *Object, field string) bool {
	v, _ := rec.Get(field)
	_, ok := v.([]any)
	return ok
}

// containsTag compares stringified values, as Search does, so a numeric 1
// already in the list counts as the tag "1".
func containsTag(list []any, tag string) bool {
	for _, item := range list {
		if Stringify(item) == tag {
			return true
		}
	}
	return false
}
