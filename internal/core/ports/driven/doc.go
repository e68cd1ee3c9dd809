// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document and chunk persistence
//   - TokenCounter: Token counting for the chunker
//   - Extractor: Text extraction from source files
//   - ExtractorRegistry: Selects the appropriate extractor
//   - EmbeddingService: Vector embeddings for chunks and questions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, ask is disabled.
//   - Summariser: Chain providers. An empty chain leaves summaries unset.
//   - DrugDirectory: Medication lookup. Without it, the validator skips
//     the drug-name check and keeps the dosage and language checks.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
