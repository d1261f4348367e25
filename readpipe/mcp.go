package readpipe

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/readpipe/kit"
)

// RegisterMCP registers the pipeline's tools on an MCP server, making the
// reader available to a host chat runtime as a content-acquisition tool.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerReadTool(srv)
	p.registerReadMarkdownTool(srv)
	p.registerClassifyTool(srv)
}

type readReq struct {
	URL    string `json:"url"`
	Render *bool  `json:"render,omitempty"`
}

func (r *readReq) render() bool {
	return r.Render == nil || *r.Render
}

func decodeReadReq(args json.RawMessage) (any, error) {
	var r readReq
	if err := json.Unmarshal(args, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

var readInputSchema = kit.ObjectSchema(map[string]any{
	"url": map[string]any{
		"type":        "string",
		"description": "URL of the page or PDF to read",
	},
	"render": map[string]any{
		"type":        "boolean",
		"description": "Render the page in a browser before extraction (default true; ignored for PDFs)",
	},
}, []string{"url"})

func (p *Pipeline) registerReadTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "read_url",
		Description: "Read a URL (HTML page or PDF) and return its content, metadata, and mined references as JSON.",
		InputSchema: readInputSchema,
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*readReq)
		return p.SmartRead(ctx, r.URL, r.render()), nil
	}

	kit.RegisterTool(srv, tool, endpoint, decodeReadReq)
}

func (p *Pipeline) registerReadMarkdownTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "read_markdown",
		Description: "Read a URL (HTML page or PDF) and return a formatted markdown report with metadata and references.",
		InputSchema: readInputSchema,
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*readReq)
		return p.SmartReadToMarkdown(ctx, r.URL, r.render()), nil
	}

	kit.RegisterTool(srv, tool, endpoint, decodeReadReq)
}

type classifyReq struct {
	URL string `json:"url"`
}

func (p *Pipeline) registerClassifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "classify_url",
		Description: "Classify a URL as html or pdf without fetching it.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "URL to classify"},
		}, []string{"url"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*classifyReq)
		return map[string]any{"content_type": string(Classify(r.URL))}, nil
	}

	decode := func(args json.RawMessage) (any, error) {
		var r classifyReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterTool(srv, tool, endpoint, decode)
}
