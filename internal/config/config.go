// SPDX-License-Identifier: Apache-2.0

// Package config loads transform plans and rename tables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
)

//go:embed plan.cue
var planSchema string

// Step operation names.
const (
	OpRemapKeys        = "remap-keys"
	OpDedupeIDs        = "dedupe-ids"
	OpMigrateField     = "migrate-field"
	OpAddTags          = "add-tags"
	OpRepairDimensions = "repair-dimensions"
	OpSlugify          = "slugify"
	OpRetitle          = "retitle"
)

// Plan is an ordered list of transforms over one catalog file. Input and
// Output may be left to the caller.
type Plan struct {
	Input   string `json:"input,omitempty"`
	Output  string `json:"output,omitempty"`
	IDField string `json:"idField"`
	Steps   []Step `json:"steps"`
}

// Step is one transform. Only the fields of its operation are set.
type Step struct {
	Op string `json:"op"`

	Renames    map[string]string `json:"renames,omitempty"`
	RenameFile string            `json:"renameFile,omitempty"`
	Invert     bool              `json:"invert,omitempty"`

	Field         string `json:"field,omitempty"`
	SiblingOutput string `json:"siblingOutput,omitempty"`
	SkipNull      bool   `json:"skipNull,omitempty"`

	Key           string   `json:"key,omitempty"`
	Value         string   `json:"value,omitempty"`
	CaseSensitive bool     `json:"caseSensitive,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	TagField      string   `json:"tagField,omitempty"`

	Labels *Labels `json:"labels,omitempty"`

	Prefix    string `json:"prefix,omitempty"`
	ImageRoot string `json:"imageRoot,omitempty"`
}

// Labels overrides the dimension field names.
type Labels struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// DimensionLabels returns the labels as catalog dimension labels, or the
// defaults when l is nil.
func (l *Labels) DimensionLabels() catalog.DimensionLabels {
	if l == nil {
		return catalog.DefaultDimensionLabels
	}
	return catalog.DimensionLabels{Length: l.Length, Width: l.Width, Height: l.Height}
}

// ParsePlan validates CUE or JSON plan source against the plan schema and
// decodes it. name is used in error messages.
func ParsePlan(data []byte, name string) (*Plan, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(planSchema, cue.Filename("plan.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile plan schema: %w", err)
	}
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", name, err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Plan")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", name, err)
	}
	var plan Plan
	if err := unified.Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", name, err)
	}
	for i, step := range plan.Steps {
		if step.Op == OpRemapKeys && len(step.Renames) == 0 && step.RenameFile == "" {
			return nil, fmt.Errorf("invalid plan %s: step %d (%s): renames or renameFile is required", name, i, step.Op)
		}
	}
	return &plan, nil
}

// LoadPlan reads a plan file. Relative paths in the plan are resolved against
// the plan's directory.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	plan, err := ParsePlan(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	plan.Input = resolve(dir, plan.Input)
	plan.Output = resolve(dir, plan.Output)
	for i := range plan.Steps {
		plan.Steps[i].RenameFile = resolve(dir, plan.Steps[i].RenameFile)
		plan.Steps[i].SiblingOutput = resolve(dir, plan.Steps[i].SiblingOutput)
	}
	return plan, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// ParseRenameTable decodes a JSON or YAML mapping of field names. With
// invert the mapping is read as new name to old name.
func ParseRenameTable(source codec.Source, invert bool) (catalog.RenameTable, error) {
	doc, _, err := codec.Default().Decode(source)
	if err != nil {
		return nil, err
	}
	if doc.Shape() != catalog.Keyed {
		return nil, fmt.Errorf("rename table %s: %w: want a mapping", source.Name, catalog.ErrUnsupportedShape)
	}
	root := doc.Root().(*catalog.Object)
	table := make(catalog.RenameTable, root.Len())
	var bad error
	root.Range(func(k string, v any) bool {
		s, ok := v.(string)
		if !ok {
			bad = fmt.Errorf("rename table %s: value of %q is %s, want string", source.Name, k, catalog.TypeName(v))
			return false
		}
		table[k] = s
		return true
	})
	if bad != nil {
		return nil, bad
	}
	if invert {
		return table.Invert()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadRenameTable reads a rename table file.
func LoadRenameTable(path string, invert bool) (catalog.RenameTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rename table: %w", err)
	}
	return ParseRenameTable(codec.Source{
		Content: data,
		Format:  codec.FormatFromPath(path),
		Name:    filepath.Base(path),
	}, invert)
}

// ErrNoInput is returned when neither the plan nor the caller names an input
// file.
var ErrNoInput = errors.New("no input file")
