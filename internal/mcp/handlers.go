package mcp

import (
	"encoding/json"
	"errors"

	"github.com/bobmcallan/vire-picks/internal/data"
	"github.com/mark3labs/mcp-go/mcp"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a single text content block.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

// loadError maps a data error onto a tool error message.
func loadError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, data.ErrSnapshotNotFound):
		return errorResult("today.json not found")
	case errors.Is(err, data.ErrSnapshotMalformed):
		return errorResult("today.json is malformed")
	case errors.Is(err, data.ErrEquityNotFound):
		return errorResult("equity.csv not found")
	}
	return errorResult(err.Error())
}
