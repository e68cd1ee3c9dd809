// Package mcp serves the vault over the Model Context Protocol, so AI
// assistants can ask questions about a user's documents and browse
// them as resources.
package mcp

import "errors"

// ErrMissingAssistantService is returned by NewServer when no
// assistant service is wired; without one the server has nothing to
// answer with.
var ErrMissingAssistantService = errors.New("mcp: assistant service is required")
