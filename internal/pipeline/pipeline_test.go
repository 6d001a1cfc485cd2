// SPDX-License-Identifier: Apache-2.0

package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
	"github.com/teplomarket/catalog-mcp/internal/config"
	"github.com/teplomarket/catalog-mcp/internal/pipeline"
	"github.com/teplomarket/catalog-mcp/internal/store"
)

func decode(t *testing.T, src string) *catalog.Document {
	t.Helper()
	doc, err := codec.NewJSON().Decode(codec.Source{Content: []byte(src)})
	require.NoError(t, err)
	return doc
}

func encode(t *testing.T, doc *catalog.Document) string {
	t.Helper()
	out, err := catalog.EncodeCompact(doc.Root())
	require.NoError(t, err)
	return string(out)
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

func TestPipelineRun(t *testing.T) {
	ctx := context.Background()
	doc := decode(t, `[{"id":"a","Цена":1,"actionPrice":null},{"id":"a","Цена":2,"actionPrice":5}]`)

	p := pipeline.NewPipeline(nil,
		pipeline.RemapKeys{Table: catalog.RenameTable{"Цена": "price"}},
		pipeline.DedupeIDs{},
		pipeline.MigrateField{Field: "actionPrice", Options: catalog.MigrateOptions{SkipNull: true}},
	)
	assert.Equal(t, []string{"remap-keys", "dedupe-ids", "migrate-field"}, p.RegisteredSteps())

	result, err := p.RunWithMeta(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t,
		`[{"id":"a","price":1,"actionPrice":null},{"id":"a_1","price":2}]`,
		encode(t, result.Document))
	require.Len(t, result.Siblings, 1)
	assert.Equal(t, "actionPrice", result.Siblings[0].Field)
	assert.Equal(t, `{"a_1":5}`, encode(t, result.Siblings[0].Document))
	require.Len(t, result.Reports, 3)
	assert.Equal(t, 2+1+1, result.Processed())

	assert.Equal(t, `[{"id":"a","Цена":1,"actionPrice":null},{"id":"a","Цена":2,"actionPrice":5}]`,
		encode(t, doc), "input is not modified")
}

func TestPipelineStepError(t *testing.T) {
	doc := decode(t, `[{"id":true}]`)
	_, err := pipeline.NewPipeline(nil, pipeline.DedupeIDs{}).Run(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnsupportedIdentifierType))
	assert.Contains(t, err.Error(), `step "dedupe-ids" failed`)
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.NewPipeline(nil, pipeline.Slugify{}).Run(ctx, decode(t, `[]`))
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// Steps
// ---------------------------------------------------------------------------

func TestNewStep(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Step
		want    string
		wantErr bool
	}{
		{name: "remap inline", cfg: config.Step{Op: "remap-keys", Renames: map[string]string{"a": "b"}}, want: "remap-keys"},
		{name: "remap collision", cfg: config.Step{Op: "remap-keys", Renames: map[string]string{"a": "x", "b": "x"}}, wantErr: true},
		{name: "remap missing file", cfg: config.Step{Op: "remap-keys", RenameFile: "/does/not/exist.json"}, wantErr: true},
		{name: "dedupe", cfg: config.Step{Op: "dedupe-ids"}, want: "dedupe-ids"},
		{name: "migrate", cfg: config.Step{Op: "migrate-field", Field: "price"}, want: "migrate-field"},
		{name: "migrate without field", cfg: config.Step{Op: "migrate-field"}, wantErr: true},
		{name: "tags", cfg: config.Step{Op: "add-tags", Key: "brand", Value: "x", Tags: []string{"t"}}, want: "add-tags"},
		{name: "tags without tags", cfg: config.Step{Op: "add-tags", Key: "brand"}, wantErr: true},
		{name: "dimensions", cfg: config.Step{Op: "repair-dimensions"}, want: "repair-dimensions"},
		{name: "slugify", cfg: config.Step{Op: "slugify"}, want: "slugify"},
		{name: "retitle", cfg: config.Step{Op: "retitle", Prefix: "p", ImageRoot: "img"}, want: "retitle"},
		{name: "retitle without root", cfg: config.Step{Op: "retitle", Prefix: "p"}, wantErr: true},
		{name: "unknown", cfg: config.Step{Op: "explode"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := pipeline.NewStep(tt.cfg, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, step.Name())
		})
	}
}

func TestAddTagsStep(t *testing.T) {
	doc := decode(t, `{"p1":{"id":"p1","brand":"BAXI"},"p2":{"id":"p2","brand":"Vaillant"}}`)
	step := pipeline.AddTags{
		Criteria: catalog.Criteria{Key: "brand", Value: "baxi"},
		Tags:     []string{"Котлы Baxi"},
	}
	res, err := step.Apply(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t,
		`{"p1":{"id":"p1","brand":"BAXI","categories":["Котлы Baxi"]},"p2":{"id":"p2","brand":"Vaillant"}}`,
		encode(t, res.Document))
}

// ---------------------------------------------------------------------------
// Execute
// ---------------------------------------------------------------------------

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(input,
		[]byte(`[{"id":"p1","actionPrice":90,"Габариты, x 300 x 200":600}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "filter.json"),
		[]byte(`{"sale":"actionPrice"}`), 0o644))

	plan := &config.Plan{
		Input:   input,
		IDField: "id",
		Steps: []config.Step{
			{Op: "remap-keys", RenameFile: filepath.Join(dir, "filter.json"), Invert: true},
			{Op: "migrate-field", Field: "sale"},
			{Op: "repair-dimensions"},
		},
	}
	result, err := pipeline.Execute(context.Background(), plan, store.New(nil, nil), nil)
	require.NoError(t, err)
	require.Len(t, result.Siblings, 1)
	assert.Equal(t, filepath.Join(dir, "sale.json"), result.Siblings[0].Path)

	main, err := os.ReadFile(input)
	require.NoError(t, err)
	doc := decode(t, string(main))
	assert.Equal(t,
		`[{"id":"p1","Габариты":"600x300x200","Длина":600,"Ширина":300,"Высота":200}]`,
		encode(t, doc))

	side, err := os.ReadFile(filepath.Join(dir, "sale.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"p1\": 90\n}\n", string(side))
}

func TestExecuteFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "items.json")
	original := `[{"id":[1]}]`
	require.NoError(t, os.WriteFile(input, []byte(original), 0o644))

	plan := &config.Plan{Input: input, Steps: []config.Step{{Op: "dedupe-ids"}}}
	_, err := pipeline.Execute(context.Background(), plan, store.New(nil, nil), nil)
	require.Error(t, err)

	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestExecuteNoInput(t *testing.T) {
	_, err := pipeline.Execute(context.Background(), &config.Plan{}, store.New(nil, nil), nil)
	assert.ErrorIs(t, err, config.ErrNoInput)
}

func TestExecuteSiblingCollidesWithOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "items.json")
	original := `[{"id":"p1","price":100}]`
	require.NoError(t, os.WriteFile(input, []byte(original), 0o644))

	plan := &config.Plan{
		Input:  input,
		Output: filepath.Join(dir, "price.json"),
		Steps:  []config.Step{{Op: "migrate-field", Field: "price"}},
	}
	_, err := pipeline.Execute(context.Background(), plan, store.New(nil, nil), nil)
	assert.ErrorIs(t, err, store.ErrDuplicateOutput)

	_, statErr := os.Stat(filepath.Join(dir, "price.json"))
	assert.True(t, os.IsNotExist(statErr))
	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}
