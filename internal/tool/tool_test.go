// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/config"
)

func TestAnalyzeCatalog(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	tests := []struct {
		name           string
		input          InputAnalyzeCatalog
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output OutputAnalyzeCatalog)
	}{
		{
			name:        "empty content returns error",
			input:       InputAnalyzeCatalog{Content: ""},
			wantErr:     true,
			errContains: "content is required",
		},
		{
			name:        "blank content returns error",
			input:       InputAnalyzeCatalog{Content: " \n"},
			wantErr:     true,
			errContains: "empty",
		},
		{
			name:        "scalar root returns error",
			input:       InputAnalyzeCatalog{Content: "42", Format: "json"},
			wantErr:     true,
			errContains: "mapping or a sequence",
		},
		{
			name: "keyed json catalog",
			input: InputAnalyzeCatalog{
				Content: `{"p1":{"id":"p1","brand":"Baxi"},"p2":{"id":"p2","brand":"Vaillant"}}`,
				Key:     "brand",
			},
			validateOutput: func(t *testing.T, output OutputAnalyzeCatalog) {
				assert.Equal(t, "json", output.CodecUsed)
				assert.Equal(t, "keyed", output.Analysis.Shape)
				assert.Equal(t, 2, output.Analysis.Total)
				require.Len(t, output.Analysis.Keys, 2)
				assert.Equal(t, "id", output.Analysis.Keys[0].Key)
				assert.Equal(t, "string", output.Analysis.Keys[0].Type)
				assert.Equal(t, []string{"Baxi", "Vaillant"}, output.Values)
			},
		},
		{
			name: "indexed yaml catalog",
			input: InputAnalyzeCatalog{
				Content: "- id: a\n  price: 10\n- id: b\n",
				Format:  "yaml",
			},
			validateOutput: func(t *testing.T, output OutputAnalyzeCatalog) {
				assert.Equal(t, "yaml", output.CodecUsed)
				assert.Equal(t, "indexed", output.Analysis.Shape)
				assert.Equal(t, 2, output.Analysis.Total)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := AnalyzeCatalog(ctx, req, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Nil(t, result)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestTransformCatalog(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	tests := []struct {
		name           string
		input          InputTransformCatalog
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output OutputTransformCatalog)
	}{
		{
			name:        "empty content returns error",
			input:       InputTransformCatalog{Operation: "slugify"},
			wantErr:     true,
			errContains: "content is required",
		},
		{
			name:        "unknown operation returns error",
			input:       InputTransformCatalog{Content: `[]`, Operation: "explode"},
			wantErr:     true,
			errContains: "unknown operation",
		},
		{
			name: "rename files are refused",
			input: InputTransformCatalog{
				Content:   `[]`,
				Operation: "remap-keys",
				Params:    config.Step{RenameFile: "/etc/passwd"},
			},
			wantErr:     true,
			errContains: "renameFile",
		},
		{
			name: "dedupe reports renamed records",
			input: InputTransformCatalog{
				Content:   `[{"id":"a"},{"id":"a"}]`,
				Operation: "dedupe-ids",
			},
			validateOutput: func(t *testing.T, output OutputTransformCatalog) {
				assert.Equal(t, "[\n  {\n    \"id\": \"a\"\n  },\n  {\n    \"id\": \"a_1\"\n  }\n]\n", output.Content)
				assert.Equal(t, 1, output.Processed)
				require.Len(t, output.Events, 1)
				assert.Equal(t, catalog.EventRenamed, output.Events[0].Kind)
			},
		},
		{
			name: "migrate returns sibling",
			input: InputTransformCatalog{
				Content:   `{"p1":{"id":"p1","price":100}}`,
				Operation: "migrate-field",
				Params:    config.Step{Field: "price"},
			},
			validateOutput: func(t *testing.T, output OutputTransformCatalog) {
				assert.Equal(t, "{\n  \"p1\": {\n    \"id\": \"p1\"\n  }\n}\n", output.Content)
				assert.Equal(t, "{\n  \"p1\": 100\n}\n", output.Sibling)
			},
		},
		{
			name: "yaml stays yaml",
			input: InputTransformCatalog{
				Content:   "- id: a\n  Цена: 5\n",
				Format:    "yaml",
				Operation: "remap-keys",
				Params:    config.Step{Renames: map[string]string{"Цена": "price"}},
			},
			validateOutput: func(t *testing.T, output OutputTransformCatalog) {
				assert.Contains(t, output.Content, "price: 5")
				assert.NotContains(t, output.Content, "{")
			},
		},
		{
			name: "tags skip unresolved criteria silently",
			input: InputTransformCatalog{
				Content:   `[{"id":"a","brand":"Baxi"}]`,
				Operation: "add-tags",
				Params:    config.Step{Key: "brand", Value: "vaillant", Tags: []string{"x"}},
			},
			validateOutput: func(t *testing.T, output OutputTransformCatalog) {
				assert.Equal(t, 0, output.Processed)
				assert.Empty(t, output.Sibling)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := TransformCatalog(ctx, req, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Nil(t, result)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer("test"))
}
