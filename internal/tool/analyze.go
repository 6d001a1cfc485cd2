// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
)

// MetadataAnalyzeCatalog describes the analyze_catalog tool.
var MetadataAnalyzeCatalog = &mcp.Tool{
	Name: "analyze_catalog",
	Description: "Summarise the structure of a product catalog document. " +
		"Reports whether the top level is keyed by identifier or a plain list, how many records it holds, " +
		"and for each field seen in the first records its count, type and a few sample values. " +
		"Use it before transform_catalog to find field names and identifier conventions.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Raw catalog document",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Format hint. One of: json, yaml. If omitted, auto-detection is used.",
				"enum":        []string{"json", "yaml"},
			},
			"sample": map[string]interface{}{
				"type":        "integer",
				"description": "Number of leading records to collect field statistics from. Defaults to 5.",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Optional field name whose distinct values are listed across all records.",
			},
		},
	},
}

// InputAnalyzeCatalog is the input for the AnalyzeCatalog tool.
type InputAnalyzeCatalog struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Sample  int    `json:"sample"`
	Key     string `json:"key"`
}

// OutputAnalyzeCatalog is the output for the AnalyzeCatalog tool.
type OutputAnalyzeCatalog struct {
	Analysis catalog.Analysis `json:"analysis"`
	// CodecUsed is the name of the codec the document was decoded with.
	CodecUsed string `json:"codec_used"`
	// Values lists the distinct values of the requested key.
	Values []string `json:"values,omitempty"`
}

// AnalyzeCatalog decodes the document and returns its structure summary.
func AnalyzeCatalog(_ context.Context, _ *mcp.CallToolRequest, input InputAnalyzeCatalog) (*mcp.CallToolResult, OutputAnalyzeCatalog, error) {
	if input.Content == "" {
		return nil, OutputAnalyzeCatalog{}, fmt.Errorf("content is required")
	}
	doc, c, err := codec.Default().Decode(codec.Source{
		Content: []byte(input.Content),
		Format:  input.Format,
		Name:    "content",
	})
	if err != nil {
		return nil, OutputAnalyzeCatalog{}, err
	}
	out := OutputAnalyzeCatalog{
		Analysis:  catalog.Analyze(doc, input.Sample),
		CodecUsed: c.Name(),
	}
	if input.Key != "" {
		out.Values = catalog.DistinctValues(doc, input.Key)
	}
	return nil, out, nil
}
