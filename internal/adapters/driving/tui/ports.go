// Package tui provides the interactive chat interface for caresync.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/Mettice/caresync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the chat TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions grounded in the corpus.
	Ask driving.Asker

	// Document reports corpus statistics for the status bar. Optional.
	Document driving.DocumentManager
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
