package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages a user's ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// ListByOwner returns an owner's documents, newest first.
func (s *DocumentService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner ID must not be empty", domain.ErrInvalidInput)
	}
	return s.docStore.ListByOwner(ctx, ownerID)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the concatenated content of all chunks.
// Adjacent chunks share overlap text, so this is a readable
// reconstruction for display, not a byte-exact copy of the source.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	// Verify document exists
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", err
	}

	// Chunks come back in index order
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for i := range chunks {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(chunks[i].Content)
	}

	return builder.String(), nil
}

// GetDetails returns format-agnostic metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	count, err := s.docStore.ChunkCount(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("chunk count: %w", err)
	}

	details := &driving.DocumentDetails{
		ID:           doc.ID,
		OwnerID:      doc.OwnerID,
		FileName:     doc.FileName,
		FileType:     doc.FileType,
		SourceURI:    doc.SourceURI,
		ChunkCount:   count,
		PageCount:    doc.PageCount,
		SummaryReady: doc.HasSummary(),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if doc.Summary != nil {
		details.Summary = *doc.Summary
	}

	return details, nil
}

// Delete removes a document and all of its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	// Verify first so callers get ErrNotFound, not a silent no-op
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s (%s)", doc.ID, doc.FileName)
	return nil
}
