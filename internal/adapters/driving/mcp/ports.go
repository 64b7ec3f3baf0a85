package mcp

import (
	"github.com/Mettice/caresync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions grounded in the corpus.
	Ask driving.Asker

	// Ingest turns files into indexed documents.
	Ingest driving.Ingestor

	// Document manages the ingested corpus.
	Document driving.DocumentManager

	// Conversation exposes conversation history.
	Conversation driving.ConversationManager
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Ingest, Document and Conversation are optional; the matching
	// tools and resources degrade when absent.
	return nil
}
