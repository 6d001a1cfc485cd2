// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"regexp"
	"strings"
)

// RetitleOptions configures Retitle.
type RetitleOptions struct {
	// Prefix is the title prefix that marks records to rewrite, such as
	// "Газовый котел настенный ".
	Prefix string
	// ImageRoot is the directory images are moved under.
	ImageRoot string
	// IDField names the identifier field. Empty means DefaultIDField.
	IDField string
}

var (
	titleJunk = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	dashRun   = regexp.MustCompile(`-{2,}`)
	spaceRun  = regexp.MustCompile(`\s+`)
)

// TitleID derives an identifier from the part of a title after its prefix:
// punctuation dropped, whitespace turned into dashes.
func TitleID(rest string) string {
	s := titleJunk.ReplaceAllString(rest, "")
	s = spaceRun.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Retitle rewrites records whose title starts with opts.Prefix and that have
// images: the identifier becomes TitleID of the rest of the title, the first
// image moves to "<root>/<old id>/<file>", and the first full-size image, if
// any, becomes the second image under the same directory and the full_img
// field is dropped.
//
// Image paths are rebuilt from the current identifier, so running Retitle
// twice moves them again.
func Retitle(d *Document, opts RetitleOptions) (*Result, error) {
	if opts.Prefix == "" {
		return nil, errors.New("retitle: title prefix is required")
	}
	idField := opts.IDField
	if idField == "" {
		idField = DefaultIDField
	}
	root := strings.TrimRight(opts.ImageRoot, "/")
	report := newReport("retitle")
	out := d.Clone()
	for _, e := range out.Records() {
		title, _ := e.Record.Get("title")
		ts, ok := title.(string)
		if !ok || !strings.HasPrefix(ts, opts.Prefix) {
			continue
		}
		idv, ok := e.Record.Get(idField)
		if !ok {
			report.skip(e.ID, e.Path, "no %s field", idField)
			continue
		}
		oldID, _, err := identifier(idv)
		if err != nil {
			report.skip(e.ID, e.Path, "%v", err)
			continue
		}
		imgs, ok := firstImages(e.Record, "img")
		if !ok {
			report.skip(oldID, e.Path, "no images")
			continue
		}
		newID := TitleID(strings.TrimPrefix(ts, opts.Prefix))
		if newID == "" {
			report.skip(oldID, e.Path, "title %q leaves an empty identifier", ts)
			continue
		}
		dir := root + "/" + oldID + "/"
		imgs[0] = dir + baseName(imgs[0].(string))
		if full, ok := firstImages(e.Record, "full_img"); ok {
			second := dir + baseName(full[0].(string))
			if len(imgs) < 2 {
				imgs = append(imgs, second)
			} else {
				imgs[1] = second
			}
			e.Record.Delete("full_img")
		}
		e.Record.Set(idField, newID)
		e.Record.Set("img", imgs)
		report.done(EventRenamed, newID, e.Path, "%s %q -> %q, images under %s", idField, oldID, newID, dir)
	}
	return &Result{Document: out, Report: report}, nil
}

// firstImages returns a copy of a non-empty image list whose first entry is a
// string.
func firstImages(rec *Object, field string) ([]any, bool) {
	v, _ := rec.Get(field)
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	if _, ok := list[0].(string); !ok {
		return nil, false
	}
	return append([]any(nil), list...), true
}

func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
