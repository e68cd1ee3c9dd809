package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It mirrors the SQLite store's semantics so services can be tested
// without touching disk.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// CreateDocument stores a new document. The summary always starts unset.
func (s *DocumentStore) CreateDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document requires an ID", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.documents {
		if existing.OwnerID == doc.OwnerID && existing.FileHash == doc.FileHash {
			return fmt.Errorf("%w: document with this content already stored", domain.ErrAlreadyExists)
		}
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	stored := *doc
	stored.Summary = nil
	s.documents[doc.ID] = stored
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// FindByHash retrieves an owner's document by content hash.
func (s *DocumentStore) FindByHash(_ context.Context, ownerID, fileHash string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.OwnerID == ownerID && doc.FileHash == fileHash {
			return cloneDocument(doc), nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdateExtractedText replaces the document's extracted text.
func (s *DocumentStore) UpdateExtractedText(_ context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.ExtractedText = text
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// SaveChunks stores chunks, replacing any previously stored for the
// same documents.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]domain.Chunk)
	for _, chunk := range chunks {
		grouped[chunk.DocumentID] = append(grouped[chunk.DocumentID], chunk)
	}
	for docID, group := range grouped {
		sort.Slice(group, func(i, j int) bool { return group[i].Index < group[j].Index })
		s.chunks[docID] = cloneChunks(group)
	}
	return nil
}

// ChunkCount returns the number of stored chunks for a document.
func (s *DocumentStore) ChunkCount(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[documentID]), nil
}

// GetChunks retrieves all chunks for a document in index order.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	return cloneChunks(chunks), nil
}

// ChunksByOwner retrieves every chunk across an owner's documents.
func (s *DocumentStore) ChunksByOwner(_ context.Context, ownerID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := make([]string, 0, len(s.chunks))
	for docID := range s.chunks {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	var result []domain.Chunk
	for _, docID := range docIDs {
		for _, chunk := range s.chunks[docID] {
			if chunk.OwnerID == ownerID {
				result = append(result, chunk)
			}
		}
	}
	return cloneChunks(result), nil
}

// UpdateSummary sets the document's summary. Empty summaries are
// rejected so a stored summary can never revert to unset.
func (s *DocumentStore) UpdateSummary(_ context.Context, documentID, summary string) error {
	if strings.TrimSpace(summary) == "" {
		return fmt.Errorf("%w: summary must not be empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Summary = &summary
	doc.UpdatedAt = time.Now().UTC()
	s.documents[documentID] = doc
	return nil
}

// ListByOwner returns an owner's documents, newest first.
func (s *DocumentStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for _, doc := range s.documents {
		if doc.OwnerID == ownerID {
			result = append(result, *cloneDocument(doc))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ListMissingSummaries returns documents whose summary is still unset,
// oldest first. A non-positive limit returns all of them.
func (s *DocumentStore) ListMissingSummaries(_ context.Context, limit int) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for _, doc := range s.documents {
		if doc.Summary == nil {
			result = append(result, *cloneDocument(doc))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// cloneDocument copies a document so callers cannot mutate stored state.
func cloneDocument(doc domain.Document) *domain.Document {
	out := doc
	if doc.Summary != nil {
		summary := *doc.Summary
		out.Summary = &summary
	}
	return &out
}

// cloneChunks copies chunks including their embedding slices.
func cloneChunks(chunks []domain.Chunk) []domain.Chunk {
	if chunks == nil {
		return nil
	}
	out := make([]domain.Chunk, len(chunks))
	for i, chunk := range chunks {
		out[i] = chunk
		if chunk.Embedding != nil {
			out[i].Embedding = append([]float32(nil), chunk.Embedding...)
		}
	}
	return out
}
