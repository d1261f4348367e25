package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/readpipe/kit"
	"github.com/hazyhaar/readpipe/safeurl"
)

// DocumentSource resolves a stored document's markdown content. Satisfied
// by docstore.Store.
type DocumentSource interface {
	Read(name string) (string, error)
	Base() string
}

// RegisterMCP registers the PDF export tool on an MCP server.
func RegisterMCP(srv *mcp.Server, source DocumentSource) {
	tool := &mcp.Tool{
		Name:        "doc_export_pdf",
		Description: "Export a stored markdown document as a PDF file next to the store.",
		InputSchema: kit.ObjectSchema(map[string]any{
			"filename": map[string]any{"type": "string", "description": "Stored document name, .md suffix optional"},
			"output":   map[string]any{"type": "string", "description": "Output file name (default: document name with .pdf suffix)"},
		}, []string{"filename"}),
	}

	type exportReq struct {
		Filename string `json:"filename"`
		Output   string `json:"output,omitempty"`
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*exportReq)
		content, err := source.Read(r.Filename)
		if err != nil {
			return nil, err
		}
		out := r.Output
		if out == "" {
			out = strings.TrimSuffix(filepath.Base(r.Filename), ".md")
		}
		dest, err := safeurl.Join(source.Base(), out)
		if err != nil {
			return nil, err
		}
		path, err := WriteFile(content, dest)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("exported %s", path), nil
	}

	decode := func(args json.RawMessage) (any, error) {
		var r exportReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterTool(srv, tool, endpoint, decode)
}
