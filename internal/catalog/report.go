// SPDX-License-Identifier: Apache-2.0

package catalog

import "fmt"

// EventKind classifies a diagnostic event.
type EventKind string

const (
	EventRenamed  EventKind = "renamed"
	EventMigrated EventKind = "migrated"
	EventTagged   EventKind = "tagged"
	EventRepaired EventKind = "repaired"
	EventSkipped  EventKind = "skipped"
	EventConflict EventKind = "conflict"
)

// Event is one diagnostic produced by an operation. The core never prints;
// callers render events however they like.
type Event struct {
	Kind    EventKind `json:"kind"`
	Op      string    `json:"op"`
	ID      string    `json:"id,omitempty"`
	Path    string    `json:"path,omitempty"`
	Message string    `json:"message"`
}

// Report counts the records an operation touched and carries its events.
type Report struct {
	Op        string  `json:"op"`
	Processed int     `json:"processed"`
	Skipped   int     `json:"skipped"`
	Events    []Event `json:"events,omitempty"`
}

func newReport(op string) *Report {
	return &Report{Op: op}
}

func (r *Report) add(kind EventKind, id string, path Path, format string, args ...any) {
	r.Events = append(r.Events, Event{
		Kind:    kind,
		Op:      r.Op,
		ID:      id,
		Path:    path.String(),
		Message: fmt.Sprintf(format, args...),
	})
}

// done records a processed item.
func (r *Report) done(kind EventKind, id string, path Path, format string, args ...any) {
	r.Processed++
	r.add(kind, id, path, format, args...)
}

// skip records an item left untouched because of a per-record problem.
func (r *Report) skip(id string, path Path, format string, args ...any) {
	r.Skipped++
	r.add(EventSkipped, id, path, format, args...)
}

// conflict records an item left untouched because its result would replace
// an existing value.
func (r *Report) conflict(id string, path Path, format string, args ...any) {
	r.Skipped++
	r.add(EventConflict, id, path, format, args...)
}

// Filter returns the events of the given kind.
func (r *Report) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Result is the output of a transform: the new document, an optional sibling
// dataset and the report.
type Result struct {
	Document *Document
	Sibling  *Document
	Report   *Report
}
