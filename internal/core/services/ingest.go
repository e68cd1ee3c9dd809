package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the document ingestion pipeline: hash and dedup,
// extract, chunk, embed, store, and detach summarisation.
type IngestService struct {
	docStore   driven.DocumentStore
	extractors driven.ExtractorRegistry
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	summaries  *SummaryChain

	// wg tracks detached summary runs for graceful shutdown.
	wg sync.WaitGroup
}

// NewIngestService creates the ingestion pipeline service.
// The summary chain is optional - when nil, documents are stored
// without summaries and the sweeper (if running) picks them up later.
func NewIngestService(
	docStore driven.DocumentStore,
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	summaries *SummaryChain,
) *IngestService {
	return &IngestService{
		docStore:   docStore,
		extractors: extractors,
		pipeline:   pipeline,
		embedder:   embedder,
		summaries:  summaries,
	}
}

// IngestFile ingests a file from the local filesystem.
func (s *IngestService) IngestFile(ctx context.Context, ownerID, path string) (*domain.IngestResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return s.Ingest(ctx, &domain.SourceFile{
		OwnerID:   ownerID,
		SourceURI: path,
		FileName:  filepath.Base(path),
		MIMEType:  detectMIMEType(path),
		Content:   content,
	})
}

// Ingest runs the full pipeline for an in-memory source file.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *IngestService) Ingest(ctx context.Context, file *domain.SourceFile) (*domain.IngestResult, error) {
	// 1. VALIDATE INPUT
	if file == nil || len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: file content must not be empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(file.OwnerID) == "" {
		return nil, fmt.Errorf("%w: owner ID must not be empty", domain.ErrInvalidInput)
	}

	// 2. HASH AND DEDUP
	hash := sha256.Sum256(file.Content)
	fileHash := hex.EncodeToString(hash[:])

	existing, err := s.docStore.FindByHash(ctx, file.OwnerID, fileHash)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check for duplicate: %w", err)
	}
	if existing != nil {
		logger.Debug("Duplicate content hash for %s, returning existing document %s", file.FileName, existing.ID)
		return s.existingResult(ctx, existing)
	}

	// 3. EXTRACT TEXT (recover with the placeholder on failure)
	logger.Section("Extraction")
	text, pageCount, usedPlaceholder := s.extract(ctx, file)

	// 4. CREATE DOCUMENT
	now := time.Now()
	doc := &domain.Document{
		ID:            uuid.New().String(),
		OwnerID:       file.OwnerID,
		SourceURI:     file.SourceURI,
		FileName:      file.FileName,
		FileType:      file.MIMEType,
		FileHash:      fileHash,
		ExtractedText: text,
		PageCount:     pageCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.docStore.CreateDocument(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a race against a concurrent ingestion of the same bytes.
			if existing, findErr := s.docStore.FindByHash(ctx, file.OwnerID, fileHash); findErr == nil {
				return s.existingResult(ctx, existing)
			}
		}
		return nil, fmt.Errorf("create document: %w", err)
	}

	// 5. CHUNK VIA POST-PROCESSOR PIPELINE
	logger.Section("Chunking")
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		s.removeDocument(ctx, doc.ID)
		return nil, fmt.Errorf("post-process: %w", err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	// 6. EMBED CHUNK CONTENTS (positional attach)
	logger.Section("Embedding")
	if err := s.embedChunks(ctx, chunks); err != nil {
		s.removeDocument(ctx, doc.ID)
		return nil, err
	}

	// 7. SAVE CHUNKS ATOMICALLY
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		s.removeDocument(ctx, doc.ID)
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	// 8. DETACH SUMMARISATION
	s.detachSummary(doc)

	logger.Info("Ingested %s: %d chunks", doc.FileName, len(chunks))
	return &domain.IngestResult{
		Document:        doc,
		ChunkCount:      len(chunks),
		UsedPlaceholder: usedPlaceholder,
	}, nil
}

// Status reports the processing state of a document.
func (s *IngestService) Status(ctx context.Context, documentID string) (*domain.IngestStatus, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	count, err := s.docStore.ChunkCount(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("chunk count: %w", err)
	}

	return &domain.IngestStatus{
		DocumentID:   documentID,
		ChunkCount:   count,
		ChunksStored: count > 0,
		SummaryReady: doc.HasSummary(),
	}, nil
}

// Wait blocks until detached summary runs have finished.
func (s *IngestService) Wait() {
	s.wg.Wait()
}

// extract pulls text from the source file, substituting the recovery
// placeholder when extraction fails or yields nothing readable. A
// document always ends in a consistent state; extraction trouble is
// logged, never surfaced.
func (s *IngestService) extract(ctx context.Context, file *domain.SourceFile) (text string, pageCount int, usedPlaceholder bool) {
	result, err := s.extractors.Extract(ctx, file)
	if err != nil {
		logger.Warn("Extraction failed for %s (%s): %v", file.FileName, file.MIMEType, err)
		return domain.ExtractionPlaceholder, 0, true
	}

	if strings.TrimSpace(result.Text) == "" {
		logger.Warn("Extraction produced no readable text for %s", file.FileName)
		return domain.ExtractionPlaceholder, result.PageCount, true
	}

	return result.Text, result.PageCount, false
}

// embedChunks generates embeddings for all chunk contents and attaches
// them positionally. The batcher guarantees output order matches input.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// detachSummary starts the summarisation chain in the background.
// The run is decoupled from the request context: ingestion has already
// returned by the time the chain finishes, and a total failure only
// leaves the summary unset for the sweeper.
func (s *IngestService) detachSummary(doc *domain.Document) {
	if s.summaries == nil || s.summaries.Len() == 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		outcome := s.summaries.Run(context.Background(), doc)
		if outcome.Err != nil {
			logger.Error("Summary generation failed for %s: %v", doc.ID, outcome.Err)
			return
		}
		logger.Debug("Summary for %s written by %s", doc.ID, outcome.Provider)
	}()
}

// existingResult builds the duplicate-ingestion result for a document
// that already holds this content.
func (s *IngestService) existingResult(ctx context.Context, existing *domain.Document) (*domain.IngestResult, error) {
	count, err := s.docStore.ChunkCount(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("chunk count: %w", err)
	}
	return &domain.IngestResult{
		Document:      existing,
		ChunkCount:    count,
		AlreadyExists: true,
	}, nil
}

// removeDocument deletes a half-ingested document row, best effort.
// No partial state should remain queryable as complete.
func (s *IngestService) removeDocument(ctx context.Context, id string) {
	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		logger.Warn("Cleanup of incomplete document %s failed: %v", id, err)
	}
}

// mimeFallbacks covers document types the platform MIME registry often
// misses. Keys are lowercase extensions including the dot.
var mimeFallbacks = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".pdf":      "application/pdf",
}

// detectMIMEType resolves a file's MIME type from its extension.
// Parameters such as charset are stripped. Files without an extension
// are treated as plain text; unknown extensions fall back to
// application/octet-stream.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := mimeFallbacks[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		base, _, _ := strings.Cut(mimeType, ";")
		return strings.TrimSpace(base)
	}

	return "application/octet-stream"
}
