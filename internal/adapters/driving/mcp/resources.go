package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docqa resources.
	uriScheme = "docqa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "document",
		Name:        "document",
		Description: "The document questions are answered from",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	if s.ports.Indexes != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "indexes",
			Name:        "indexes",
			Description: "All persisted document indices",
			MIMEType:    "application/json",
		}, s.handleIndexesResource)
	}
}

type indexInfo struct {
	Key        string `json:"key"`
	Path       string `json:"path"`
	Title      string `json:"title"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	Chunks     int    `json:"chunks"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// handleDocumentResource describes the loaded document.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	doc := s.ports.Session.Document()
	info := doc.Index

	payload := struct {
		indexInfo
		Loaded bool `json:"loaded"`
	}{
		indexInfo: indexInfo{
			Key:        info.Key,
			Path:       info.DocumentURI,
			Title:      info.Title,
			Model:      info.Model,
			Dimensions: info.Dimensions,
			Chunks:     info.ChunkCount,
		},
		Loaded: doc.Loaded,
	}

	return jsonResult(req.Params.URI, payload)
}

// handleIndexesResource lists persisted indices.
func (s *Server) handleIndexesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos, err := s.ports.Indexes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}

	out := make([]indexInfo, len(infos))
	for i, info := range infos {
		out[i] = indexInfo{
			Key:        info.Key,
			Path:       info.DocumentURI,
			Title:      info.Title,
			Model:      info.Model,
			Dimensions: info.Dimensions,
			Chunks:     info.ChunkCount,
		}
		if !info.CreatedAt.IsZero() {
			out[i].CreatedAt = info.CreatedAt.Format(time.RFC3339)
		}
	}

	return jsonResult(req.Params.URI, out)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
