// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
	"github.com/teplomarket/catalog-mcp/internal/config"
	"github.com/teplomarket/catalog-mcp/internal/pipeline"
)

var operations = []string{
	config.OpRemapKeys,
	config.OpDedupeIDs,
	config.OpMigrateField,
	config.OpAddTags,
	config.OpRepairDimensions,
	config.OpSlugify,
	config.OpRetitle,
}

// MetadataTransformCatalog describes the transform_catalog tool.
var MetadataTransformCatalog = &mcp.Tool{
	Name: "transform_catalog",
	Description: "Apply one transform to a product catalog document and return the new document. " +
		"Operations: remap-keys (params.renames, params.invert), dedupe-ids, " +
		"migrate-field (params.field, params.skipNull; the moved values are returned as sibling), " +
		"add-tags (params.key, params.value, params.caseSensitive, params.tags, params.tagField), " +
		"repair-dimensions (params.labels), slugify, retitle (params.prefix, params.imageRoot). " +
		"The input is never modified. Records that could not be processed are listed in events with kind skipped or conflict.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content", "operation"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Raw catalog document",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Format hint. One of: json, yaml. The result uses the same format.",
				"enum":        []string{"json", "yaml"},
			},
			"operation": map[string]interface{}{
				"type":        "string",
				"description": "Transform to apply",
				"enum":        operations,
			},
			"id_field": map[string]interface{}{
				"type":        "string",
				"description": "Identifier field name. Defaults to id.",
			},
			"params": map[string]interface{}{
				"type":        "object",
				"description": "Operation parameters, named as in plan files",
			},
		},
	},
}

// InputTransformCatalog is the input for the TransformCatalog tool.
type InputTransformCatalog struct {
	Content   string      `json:"content"`
	Format    string      `json:"format"`
	Operation string      `json:"operation"`
	IDField   string      `json:"id_field"`
	Params    config.Step `json:"params"`
}

// OutputTransformCatalog is the output for the TransformCatalog tool.
type OutputTransformCatalog struct {
	// Content is the transformed document in the input's format.
	Content string `json:"content"`
	// Sibling is the dataset split off by migrate-field, as JSON.
	Sibling   string          `json:"sibling,omitempty"`
	Processed int             `json:"processed"`
	Skipped   int             `json:"skipped"`
	Events    []catalog.Event `json:"events,omitempty"`
}

// TransformCatalog applies a single operation to the document.
func TransformCatalog(ctx context.Context, _ *mcp.CallToolRequest, input InputTransformCatalog) (*mcp.CallToolResult, OutputTransformCatalog, error) {
	if input.Content == "" {
		return nil, OutputTransformCatalog{}, fmt.Errorf("content is required")
	}
	if input.Operation == "" {
		return nil, OutputTransformCatalog{}, fmt.Errorf("operation is required")
	}
	if input.Params.RenameFile != "" {
		return nil, OutputTransformCatalog{}, fmt.Errorf("params.renameFile is not accepted here; pass params.renames")
	}

	cfg := input.Params
	cfg.Op = input.Operation
	idField := input.IDField
	if idField == "" {
		idField = catalog.DefaultIDField
	}
	step, err := pipeline.NewStep(cfg, idField)
	if err != nil {
		return nil, OutputTransformCatalog{}, err
	}

	registry := codec.Default()
	doc, c, err := registry.Decode(codec.Source{
		Content: []byte(input.Content),
		Format:  input.Format,
		Name:    "content",
	})
	if err != nil {
		return nil, OutputTransformCatalog{}, err
	}

	result, err := pipeline.NewPipeline(nil, step).RunWithMeta(ctx, doc)
	if err != nil {
		return nil, OutputTransformCatalog{}, err
	}
	content, err := c.Encode(result.Document)
	if err != nil {
		return nil, OutputTransformCatalog{}, err
	}

	report := result.Reports[0]
	out := OutputTransformCatalog{
		Content:   string(content),
		Processed: report.Processed,
		Skipped:   report.Skipped,
		Events:    report.Events,
	}
	for _, s := range result.Siblings {
		sibling, err := codec.NewJSON().Encode(s.Document)
		if err != nil {
			return nil, OutputTransformCatalog{}, err
		}
		out.Sibling = string(sibling)
	}
	return nil, out, nil
}
