package domain

// SourceFile represents the opaque bytes of a file handed to ingestion.
// It is the input to text extraction.
type SourceFile struct {
	// OwnerID identifies the user ingesting the file.
	OwnerID string

	// SourceURI is the original location (file path, upload name, etc).
	SourceURI string

	// FileName is the base file name.
	FileName string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// ExtractionResult is the output of text extraction from a SourceFile.
type ExtractionResult struct {
	// Text is the extracted plain text.
	Text string

	// PageCount is the page count for paginated formats, 0 otherwise.
	PageCount int
}
