package domain

// IngestResult reports the outcome of a single document ingestion.
type IngestResult struct {
	// Document is the stored document (the pre-existing one when
	// AlreadyExists is true).
	Document *Document

	// ChunkCount is the number of chunks stored for the document.
	ChunkCount int

	// AlreadyExists is true when the same owner previously ingested a
	// file with an identical content hash; no rework was performed.
	AlreadyExists bool

	// UsedPlaceholder is true when extraction failed or produced
	// nothing readable and the placeholder text was stored instead.
	UsedPlaceholder bool
}

// IngestStatus reports the processing state of a document.
// A document with ChunksStored true is fully ingested; the summary
// arrives asynchronously and may lag behind.
type IngestStatus struct {
	// DocumentID is the document being reported on.
	DocumentID string

	// ChunkCount is the number of chunks currently visible.
	ChunkCount int

	// ChunksStored is true once the chunk set is committed. Chunk
	// writes are atomic, so any non-zero count means the full set.
	ChunksStored bool

	// SummaryReady is true once a summary has been written.
	SummaryReady bool
}
