package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question to answer from the document"`
	IncludeSources bool   `json:"include_sources,omitempty" jsonschema:"return the retrieved passages behind the answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is a retrieved passage.
type SourceOutput struct {
	Rank    int     `json:"rank"`
	Page    int     `json:"page,omitempty"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	info := s.ports.Session.Document().Index
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: fmt.Sprintf("Answer a question using only the content of %q", info.Title),
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Session.Ask(ctx, input.Question)
	if errors.Is(err, domain.ErrInvalidQuestion) {
		return nil, AskOutput{}, errors.New("question must not be empty")
	}
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{Answer: answer.Text}
	if input.IncludeSources {
		output.Sources = make([]SourceOutput, len(answer.Sources))
		for i, src := range answer.Sources {
			output.Sources[i] = SourceOutput{
				Rank:    i + 1,
				Page:    src.Chunk.Page(),
				Score:   src.Score,
				Content: src.Chunk.Content,
			}
		}
	}

	return nil, output, nil
}
