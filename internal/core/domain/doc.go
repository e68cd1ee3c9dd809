// Package domain defines the core business entities for MedVault.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested medical document owned by a user
//   - Chunk: A token-bounded retrieval unit within a document
//   - AssistantResponse: An AI answer with optional structured payload
//   - ValidationResult: Advisory safety flags attached to a response
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
