package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/mcp/tools"
)

// Resource URI scheme: hardiff://
// Supported URIs:
//   hardiff://report/{id}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.ReportURIPrefix + "{id}",
		Name:        "Detailed Comparison Report",
		Description: "A stored detailed comparison with all sections and optional unified diffs. Created by hardiff_detailed_comparison(store=true). Reading does not remove the report; use hardiff_take_report for that.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceReport)
}

func (s *Server) handleResourceReport(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	id, err := parseReportURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	rep, ok := s.deps.Reports.Get(id)
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	return toResourceResult(req.Params.URI, rep)
}

// parseReportURI extracts the report ID from a hardiff://report/{id} URI.
func parseReportURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "hardiff://") {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected hardiff://")
	}

	id, ok := strings.CutPrefix(uri, tools.ReportURIPrefix)
	if !ok {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource: %s", uri))
	}
	if id == "" || strings.Contains(id, "/") {
		return "", tools.ErrInvalidInput("report URI requires a single report ID")
	}
	return id, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
