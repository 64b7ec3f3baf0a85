package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question to answer from the clinic's documents"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation id to continue a thread (omit to start a new one)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string           `json:"answer"`
	Citations      []CitationOutput `json:"citations"`
	Confidence     float64          `json:"confidence"`
	HasContext     bool             `json:"has_context"`
	ConversationID string           `json:"conversation_id"`
}

// CitationOutput is a single source citation.
type CitationOutput struct {
	DocumentName string  `json:"document_name"`
	Page         int     `json:"page,omitempty"`
	Snippet      string  `json:"snippet,omitempty"`
	Score        float64 `json:"score"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the query to match against indexed document chunks"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieval hit.
type SearchResultOutput struct {
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Page         int     `json:"page,omitempty"`
	Score        float64 `json:"score"`
	Text         string  `json:"text"`
}

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path     string `json:"path" jsonschema:"path of the file to ingest (.pdf, .docx or .txt)"`
	Category string `json:"category,omitempty" jsonschema:"optional category assigned to the document"`
}

// IngestFileOutput is the output schema for the ingest_file tool.
type IngestFileOutput struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

// ListDocumentsInput is the (empty) input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	Status     string `json:"status"`
	Category   string `json:"category,omitempty"`
	ChunkCount int    `json:"chunk_count"`
}

// DeleteDocumentInput is the input schema for the delete_document tool.
type DeleteDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to delete"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	VectorsRemoved int `json:"vectors_removed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the clinic, answered from the ingested documents with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve the document chunks most relevant to a query, without synthesizing an answer",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Ingest a local document file into the index",
	}, s.handleIngestFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document and its index records",
	}, s.handleDeleteDocument)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Ask.Ask(ctx, input.Question, input.ConversationID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:         result.Answer,
		Citations:      make([]CitationOutput, len(result.Citations)),
		Confidence:     result.Confidence,
		HasContext:     result.HasContext,
		ConversationID: result.ConversationID,
	}
	for i, c := range result.Citations {
		output.Citations[i] = CitationOutput{
			DocumentName: c.DocumentName,
			Page:         c.Page,
			Snippet:      c.Snippet,
			Score:        c.Score,
		}
	}

	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	hits, err := s.ports.Ask.Retrieve(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i := range hits {
		output.Results[i] = SearchResultOutput{
			DocumentID:   hits[i].Record.DocumentID,
			DocumentName: hits[i].Record.DocumentName,
			Page:         hits[i].Record.Page,
			Score:        hits[i].Score,
			Text:         hits[i].Record.Text,
		}
	}

	return nil, output, nil
}

// handleIngestFile handles the ingest_file tool invocation.
func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestFileOutput{}, errors.New("ingestion is not available")
	}

	receipt, err := s.ports.Ingest.IngestFile(ctx, input.Path, input.Category)
	if err != nil {
		return nil, IngestFileOutput{}, err
	}

	return nil, IngestFileOutput{
		DocumentID: receipt.DocumentID,
		ChunkCount: receipt.ChunkCount,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, errors.New("document management is not available")
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			Format:     docs[i].Format.String(),
			Status:     docs[i].Status.String(),
			Category:   docs[i].Category,
			ChunkCount: docs[i].ChunkCount,
		}
	}

	return nil, output, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, DeleteDocumentOutput{}, errors.New("document management is not available")
	}

	removed, err := s.ports.Document.Delete(ctx, input.DocumentID)
	if err != nil {
		return nil, DeleteDocumentOutput{}, err
	}

	return nil, DeleteDocumentOutput{VectorsRemoved: removed}, nil
}
