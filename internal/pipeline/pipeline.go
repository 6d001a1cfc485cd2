// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs ordered catalog transforms and writes their outputs.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
	"github.com/teplomarket/catalog-mcp/internal/config"
	"github.com/teplomarket/catalog-mcp/internal/logger"
	"github.com/teplomarket/catalog-mcp/internal/store"
)

type Pipeline struct {
	steps []Step
	log   *logger.Logger
}

// NewPipeline creates a Pipeline applying steps in order. A nil logger
// discards output.
func NewPipeline(log *logger.Logger, steps ...Step) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{steps: steps, log: log}
}

// Sibling is a dataset split off by a step.
type Sibling struct {
	Step     string
	Field    string
	Path     string
	Document *catalog.Document
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	Document *catalog.Document
	Siblings []Sibling
	Reports  []*catalog.Report
}

// Processed returns the total number of records changed across all steps.
func (r RunResult) Processed() int {
	n := 0
	for _, rep := range r.Reports {
		n += rep.Processed
	}
	return n
}

func (p *Pipeline) Run(ctx context.Context, doc *catalog.Document) (*catalog.Document, error) {
	result, err := p.RunWithMeta(ctx, doc)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// RunWithMeta applies every step to the output of the previous one. A step
// error stops the run and nothing from the run is returned.
func (p *Pipeline) RunWithMeta(ctx context.Context, doc *catalog.Document) (RunResult, error) {
	result := RunResult{Document: doc}
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		start := time.Now()
		res, err := step.Apply(ctx, result.Document)
		if err != nil {
			return RunResult{}, fmt.Errorf("step %q failed: %w", step.Name(), err)
		}
		p.log.StepLogger(step.Name()).LogReport(res.Report, time.Since(start))

		result.Document = res.Document
		result.Reports = append(result.Reports, res.Report)
		if res.Sibling != nil {
			sibling := Sibling{Step: step.Name(), Document: res.Sibling}
			if m, ok := step.(MigrateField); ok {
				sibling.Field = m.Field
				sibling.Path = m.SiblingOutput
			}
			result.Siblings = append(result.Siblings, sibling)
		}
	}
	return result, nil
}

// RegisteredSteps returns the names of the steps in run order.
func (p *Pipeline) RegisteredSteps() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute loads plan.Input, runs the plan's steps and writes the result to
// plan.Output (or back to the input) together with every sibling dataset.
// A sibling without an explicit path is written as "<field>.json" next to
// the output. Nothing is written unless every step succeeds.
func Execute(ctx context.Context, plan *config.Plan, st *store.Store, log *logger.Logger) (RunResult, error) {
	if plan.Input == "" {
		return RunResult{}, config.ErrNoInput
	}
	steps, err := NewSteps(plan)
	if err != nil {
		return RunResult{}, err
	}
	file, err := st.Load(plan.Input)
	if err != nil {
		return RunResult{}, err
	}
	result, err := NewPipeline(log, steps...).RunWithMeta(ctx, file.Document)
	if err != nil {
		return RunResult{}, err
	}

	output := plan.Output
	if output == "" {
		output = plan.Input
	}
	outputs := []store.Output{{Path: output, Format: formatFor(output, file.Codec.Name()), Document: result.Document}}
	for i, s := range result.Siblings {
		if s.Path == "" {
			s.Path = filepath.Join(filepath.Dir(output), s.Field+".json")
			result.Siblings[i] = s
		}
		outputs = append(outputs, store.Output{Path: s.Path, Document: s.Document})
	}
	if err := st.SaveAll(outputs...); err != nil {
		return RunResult{}, err
	}
	return result, nil
}

// formatFor keeps the input's format for outputs whose extension names none.
func formatFor(path, inputFormat string) string {
	if f := codec.FormatFromPath(path); f != "" {
		return f
	}
	return inputFormat
}
