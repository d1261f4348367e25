package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/readpipe/kit"
)

// MarkdownReader produces a markdown report for a URL. Satisfied by
// readpipe.Pipeline; kept as an interface so the store's tool surface does
// not depend on the pipeline package.
type MarkdownReader interface {
	SmartReadToMarkdown(ctx context.Context, url string, render bool) string
}

// RegisterMCP registers the document management tools on an MCP server.
// The reader is optional; when present, a save_page tool is added that
// reads a URL and stores the report as a document in one step.
func (s *Store) RegisterMCP(srv *mcp.Server, reader MarkdownReader) {
	s.registerCreate(srv)
	s.registerRead(srv)
	s.registerWrite(srv)
	s.registerDelete(srv)
	s.registerList(srv)
	if reader != nil {
		s.registerSavePage(srv, reader)
	}
}

type docReq struct {
	Filename string `json:"filename"`
	Content  string `json:"content,omitempty"`
	Append   bool   `json:"append,omitempty"`
}

func decodeDocReq(args json.RawMessage) (any, error) {
	var r docReq
	if err := json.Unmarshal(args, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func filenameProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func (s *Store) registerCreate(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_create",
		Description: "Create a new markdown document. Fails if the document already exists.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"filename": filenameProp("Document name, .md suffix optional"),
			"content":  map[string]any{"type": "string", "description": "Initial content"},
		}, []string{"filename"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*docReq)
		path, err := s.Create(r.Filename, r.Content)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("created %s", path), nil
	}

	kit.RegisterTool(srv, tool, endpoint, decodeDocReq)
}

func (s *Store) registerRead(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_read",
		Description: "Read the content of a stored markdown document.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"filename": filenameProp("Document name, .md suffix optional"),
		}, []string{"filename"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*docReq)
		return s.Read(r.Filename)
	}

	kit.RegisterTool(srv, tool, endpoint, decodeDocReq)
}

func (s *Store) registerWrite(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_write",
		Description: "Write content to a markdown document, overwriting by default or appending when append is true. Creates the document if missing.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"filename": filenameProp("Document name, .md suffix optional"),
			"content":  map[string]any{"type": "string", "description": "Content to write"},
			"append":   map[string]any{"type": "boolean", "description": "Append instead of overwrite (default false)"},
		}, []string{"filename", "content"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*docReq)
		path, err := s.Write(r.Filename, r.Content, r.Append)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("wrote %s", path), nil
	}

	kit.RegisterTool(srv, tool, endpoint, decodeDocReq)
}

func (s *Store) registerDelete(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_delete",
		Description: "Delete a stored markdown document.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"filename": filenameProp("Document name, .md suffix optional"),
		}, []string{"filename"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*docReq)
		ok, err := s.Delete(r.Filename)
		if err != nil {
			return nil, err
		}
		if !ok {
			return fmt.Sprintf("%s not found", r.Filename), nil
		}
		return fmt.Sprintf("deleted %s", r.Filename), nil
	}

	kit.RegisterTool(srv, tool, endpoint, decodeDocReq)
}

func (s *Store) registerList(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "doc_list",
		Description: "List all stored markdown documents.",
		InputSchema: kit.ObjectSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		names, err := s.List()
		if err != nil {
			return nil, err
		}
		return map[string]any{"documents": names, "count": len(names)}, nil
	}

	kit.RegisterTool(srv, tool, endpoint, nil)
}

type savePageReq struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Render   *bool  `json:"render,omitempty"`
}

func (s *Store) registerSavePage(srv *mcp.Server, reader MarkdownReader) {
	tool := &mcp.Tool{
		Name:        "save_page",
		Description: "Read a URL and save the markdown report as a stored document.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"url":      map[string]any{"type": "string", "description": "URL of the page or PDF to read"},
			"filename": filenameProp("Destination document name, .md suffix optional"),
			"render":   map[string]any{"type": "boolean", "description": "Render the page in a browser before extraction (default true)"},
		}, []string{"url", "filename"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*savePageReq)
		render := r.Render == nil || *r.Render
		report := reader.SmartReadToMarkdown(ctx, r.URL, render)
		path, err := s.Write(r.Filename, report, false)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("saved %s to %s", r.URL, path), nil
	}

	decode := func(args json.RawMessage) (any, error) {
		var r savePageReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterTool(srv, tool, endpoint, decode)
}
