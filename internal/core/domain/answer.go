package domain

// RetrievedSource attributes part of an answer to a stored chunk.
type RetrievedSource struct {
	// DocumentID is the source document.
	DocumentID string

	// FileName is the source document's file name.
	FileName string

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// Score is the cosine similarity against the question embedding.
	Score float64

	// Excerpt is the chunk content used as grounding context.
	Excerpt string
}

// AnswerResult is the full outcome of a question over the vault:
// the AI response, its advisory validation, and source attribution.
type AnswerResult struct {
	// Question is the question as asked.
	Question string

	// Response is the AI-produced answer.
	Response AssistantResponse

	// Validation carries the safety flags for the response.
	Validation ValidationResult

	// Sources lists the chunks the answer was grounded on, best first.
	Sources []RetrievedSource
}
