// Package mcp provides an MCP (Model Context Protocol) server adapter for
// CareSync. It lets AI assistants ask grounded questions against the
// ingested clinic documents and manage the corpus.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
