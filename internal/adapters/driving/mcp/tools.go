package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultOwner is used when a tool call does not name a vault user.
const defaultOwner = "default"

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the user's medical documents"`
	User     string `json:"user,omitempty" jsonschema:"vault owner ID (default for single-user installs)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string         `json:"answer"`
	SafetyFlags []string       `json:"safety_flags,omitempty"`
	Sources     []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput attributes part of an answer to a stored document chunk.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	FileName   string  `json:"file_name"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	User string `json:"user,omitempty" jsonschema:"vault owner ID (default for single-user installs)"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single stored document.
type DocumentOutput struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	FileType     string `json:"file_type"`
	Summary      string `json:"summary,omitempty"`
	SummaryReady bool   `json:"summary_ready"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the user's medical documents, with safety screening",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents stored in the vault",
	}, s.handleListDocuments)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	owner := input.User
	if owner == "" {
		owner = defaultOwner
	}

	result, err := s.ports.Assistant.Ask(ctx, owner, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:      result.Response.VoiceSummary,
		SafetyFlags: result.Validation.Flags,
		Sources:     make([]SourceOutput, len(result.Sources)),
	}

	for i := range result.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID: result.Sources[i].DocumentID,
			FileName:   result.Sources[i].FileName,
			ChunkIndex: result.Sources[i].ChunkIndex,
			Score:      result.Sources[i].Score,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, errors.New("document service not available")
	}

	owner := input.User
	if owner == "" {
		owner = defaultOwner
	}

	docs, err := s.ports.Document.ListByOwner(ctx, owner)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}

	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:           docs[i].ID,
			FileName:     docs[i].FileName,
			FileType:     docs[i].FileType,
			SummaryReady: docs[i].HasSummary(),
		}
		if docs[i].HasSummary() {
			output.Documents[i].Summary = *docs[i].Summary
		}
	}

	return nil, output, nil
}
