// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/config"
)

// Step is one transform in a pipeline.
type Step interface {
	Apply(ctx context.Context, doc *catalog.Document) (*catalog.Result, error)
	Name() string
}

// RemapKeys renames record fields.
type RemapKeys struct {
	Table catalog.RenameTable
}

func (s RemapKeys) Name() string { return config.OpRemapKeys }

func (s RemapKeys) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	return catalog.RemapKeys(doc, s.Table)
}

// DedupeIDs makes identifiers unique.
type DedupeIDs struct {
	Options catalog.DedupeOptions
}

func (s DedupeIDs) Name() string { return config.OpDedupeIDs }

func (s DedupeIDs) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	return catalog.ResolveDuplicates(doc, s.Options)
}

// MigrateField moves a field into a sibling dataset written to SiblingOutput.
type MigrateField struct {
	Field         string
	SiblingOutput string
	Options       catalog.MigrateOptions
}

func (s MigrateField) Name() string { return config.OpMigrateField }

func (s MigrateField) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	return catalog.MigrateField(doc, s.Field, s.Options)
}

// AddTags tags the records matching Criteria.
type AddTags struct {
	Criteria catalog.Criteria
	Tags     []string
	Options  catalog.TagOptions
}

func (s AddTags) Name() string { return config.OpAddTags }

func (s AddTags) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	ids := catalog.IDs(catalog.Search(doc, s.Criteria))
	return catalog.AddTags(doc, ids, s.Tags, s.Options)
}

// RepairDimensions splits composite dimension fields.
type RepairDimensions struct {
	Labels catalog.DimensionLabels
}

func (s RepairDimensions) Name() string { return config.OpRepairDimensions }

func (s RepairDimensions) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	return catalog.RepairDimensions(doc, s.Labels)
}

// Slugify moves identifiers into slugs and abbreviates them.
type Slugify struct {
	IDField string
}

func (s Slugify) Name() string { return config.OpSlugify }

func (s Slugify) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	return catalog.Slugify(doc, s.IDField)
}

// Retitle rewrites identifiers and image paths of prefixed titles.
type Retitle struct {
	Options catalog.RetitleOptions
}

func (s Retitle) Name() string { return config.OpRetitle }

func (s Retitle) Apply(_ context.Context, doc *catalog.Document) (*catalog.Result, error) {
	return catalog.Retitle(doc, s.Options)
}

// NewStep builds the step described by cfg. idField is the plan-wide
// identifier field. Rename files are read here, so a bad table fails before
// any document is touched.
func NewStep(cfg config.Step, idField string) (Step, error) {
	switch cfg.Op {
	case config.OpRemapKeys:
		table, err := renameTable(cfg)
		if err != nil {
			return nil, err
		}
		return RemapKeys{Table: table}, nil
	case config.OpDedupeIDs:
		return DedupeIDs{Options: catalog.DedupeOptions{IDField: idField}}, nil
	case config.OpMigrateField:
		if cfg.Field == "" {
			return nil, fmt.Errorf("%s: field is required", cfg.Op)
		}
		return MigrateField{
			Field:         cfg.Field,
			SiblingOutput: cfg.SiblingOutput,
			Options:       catalog.MigrateOptions{IDField: idField, SkipNull: cfg.SkipNull},
		}, nil
	case config.OpAddTags:
		if cfg.Key == "" || len(cfg.Tags) == 0 {
			return nil, fmt.Errorf("%s: key and tags are required", cfg.Op)
		}
		return AddTags{
			Criteria: catalog.Criteria{Key: cfg.Key, Value: cfg.Value, CaseSensitive: cfg.CaseSensitive},
			Tags:     cfg.Tags,
			Options:  catalog.TagOptions{Field: cfg.TagField},
		}, nil
	case config.OpRepairDimensions:
		return RepairDimensions{Labels: cfg.Labels.DimensionLabels()}, nil
	case config.OpSlugify:
		return Slugify{IDField: idField}, nil
	case config.OpRetitle:
		if cfg.Prefix == "" || cfg.ImageRoot == "" {
			return nil, fmt.Errorf("%s: prefix and imageRoot are required", cfg.Op)
		}
		return Retitle{Options: catalog.RetitleOptions{
			Prefix:    cfg.Prefix,
			ImageRoot: cfg.ImageRoot,
			IDField:   idField,
		}}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", cfg.Op)
}

// NewSteps builds every step of a plan.
func NewSteps(plan *config.Plan) ([]Step, error) {
	steps := make([]Step, 0, len(plan.Steps))
	for i, cfg := range plan.Steps {
		step, err := NewStep(cfg, plan.IDField)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func renameTable(cfg config.Step) (catalog.RenameTable, error) {
	if cfg.RenameFile != "" {
		return config.LoadRenameTable(cfg.RenameFile, cfg.Invert)
	}
	table := catalog.RenameTable(cfg.Renames)
	if cfg.Invert {
		return table.Invert()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
