package mcp

import (
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
)

// Ports holds the driving services the MCP server exposes to clients.
type Ports struct {
	// Assistant answers questions over the vault. Required.
	Assistant driving.AssistantService

	// Document backs the list_documents tool and the medvault://
	// resources. Optional; those surfaces degrade when nil.
	Document driving.DocumentService

	// Ingest reports processing status. Optional.
	Ingest driving.IngestService
}

// Validate reports whether the required ports are wired.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
