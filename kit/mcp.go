// Package kit holds the transport glue shared by readpipe's MCP tool
// surfaces: a transport-neutral Endpoint type and the registration helper
// that adapts an Endpoint to an MCP tool handler.
package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Endpoint is a transport-neutral request handler.
type Endpoint func(ctx context.Context, req any) (any, error)

// Decoder extracts the typed request from raw MCP tool arguments.
type Decoder func(args json.RawMessage) (any, error)

// RegisterTool registers an Endpoint as an MCP tool on the given server.
// Decode errors and endpoint errors are reported as tool errors, never as
// protocol failures.
func RegisterTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode Decoder) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var decoded any
		if decode != nil {
			var err error
			decoded, err = decode(req.Params.Arguments)
			if err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := endpoint(ctx, decoded)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		// Strings pass through as-is; everything else is JSON-encoded.
		if s, ok := resp.(string); ok {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: s}},
			}, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// ObjectSchema builds a JSON schema for an object tool input.
func ObjectSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
