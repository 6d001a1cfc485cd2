// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSlugField is the field Slugify stores the original identifier in.
const DefaultSlugField = "slug"

var (
	slugSeparator = regexp.MustCompile(`[^a-zA-Zа-яА-Я0-9]`)
	digitRun      = regexp.MustCompile(`\d+`)
)

// Abbreviate shortens a slug to the lower-cased first letter of each word
// followed by every digit run in that word: "vaillant-turbotec-pro-242" gives
// "vtp242".
func Abbreviate(slug string) string {
	var b strings.Builder
	for _, word := range slugSeparator.Split(slug, -1) {
		if word == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(first) {
			b.WriteRune(unicode.ToLower(first))
		}
		for _, digits := range digitRun.FindAllString(word, -1) {
			b.WriteString(digits)
		}
	}
	return b.String()
}

// Slugify gives every top-level record that has an identifier but no slug a
// slug equal to its identifier, and replaces the identifier with its
// abbreviation. Records that already have a slug are left alone.
func Slugify(d *Document, idField string) (*Result, error) {
	if idField == "" {
		idField = DefaultIDField
	}
	report := newReport("slugify")
	out := d.Clone()
	for _, e := range out.Records() {
		v, ok := e.Record.Get(idField)
		if !ok || e.Record.Has(DefaultSlugField) {
			continue
		}
		text, _, err := identifier(v)
		if err != nil {
			report.skip(e.ID, e.Path, "%v", err)
			continue
		}
		abbr := Abbreviate(text)
		if abbr == "" {
			report.skip(e.ID, e.Path, "identifier %q has no letters or digits to abbreviate", text)
			continue
		}
		e.Record.Set(DefaultSlugField, text)
		e.Record.Set(idField, abbr)
		report.done(EventRenamed, abbr, e.Path, "%s %q -> %q, slug %q", idField, text, abbr, text)
	}
	return &Result{Document: out, Report: report}, nil
}
