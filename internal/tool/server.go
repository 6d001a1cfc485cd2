// SPDX-License-Identifier: Apache-2.0

// Package tool exposes catalog analysis and transforms as MCP tools.
package tool

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Register adds every catalog tool to server.
func Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataAnalyzeCatalog, AnalyzeCatalog)
	mcp.AddTool(server, MetadataTransformCatalog, TransformCatalog)
}

// NewServer returns an MCP server with the catalog tools registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "catalog-mcp", Version: version}, nil)
	Register(server)
	return server
}
