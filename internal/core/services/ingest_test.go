package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/storage/memory"
	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

func newTestIngestService(store *memory.DocumentStore) *IngestService {
	return NewIngestService(store, &mockRegistry{}, &mockPipeline{}, newMockEmbedder(), nil)
}

func sampleFile(content string) *domain.SourceFile {
	return &domain.SourceFile{
		OwnerID:   "user-1",
		SourceURI: "/inbox/report.txt",
		FileName:  "report.txt",
		MIMEType:  "text/plain",
		Content:   []byte(content),
	}
}

func TestIngest_StoresDocumentAndChunks(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(store)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, sampleFile("line one\nline two\nline three"))

	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Equal(t, 3, result.ChunkCount)
	assert.False(t, result.AlreadyExists)
	assert.False(t, result.UsedPlaceholder)

	chunks, err := store.GetChunks(ctx, result.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.NotEmpty(t, chunk.Embedding, "chunk %d should carry its vector", i)
	}
}

func TestIngest_EmbeddingsAttachPositionally(t *testing.T) {
	store := memory.NewDocumentStore()
	embedder := newMockEmbedder()
	svc := NewIngestService(store, &mockRegistry{}, &mockPipeline{}, embedder, nil)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, sampleFile("alpha text\nbeta text"))
	require.NoError(t, err)

	chunks, err := store.GetChunks(ctx, result.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, vectorFor("alpha text", embedder.dims), chunks[0].Embedding)
	assert.Equal(t, vectorFor("beta text", embedder.dims), chunks[1].Embedding)
}

func TestIngest_DuplicateHashReturnsExisting(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(store)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, sampleFile("same bytes"))
	require.NoError(t, err)

	second, err := svc.Ingest(ctx, sampleFile("same bytes"))
	require.NoError(t, err)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Document.ID, second.Document.ID)

	docs, err := store.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, docs, 1, "duplicate ingestion must not create a second document")
}

func TestIngest_SameBytesDifferentOwnersBothStored(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(store)
	ctx := context.Background()

	fileA := sampleFile("shared content")
	fileB := sampleFile("shared content")
	fileB.OwnerID = "user-2"

	_, err := svc.Ingest(ctx, fileA)
	require.NoError(t, err)
	result, err := svc.Ingest(ctx, fileB)
	require.NoError(t, err)

	assert.False(t, result.AlreadyExists, "hash dedup is scoped per owner")
}

func TestIngest_ExtractionFailureUsesPlaceholder(t *testing.T) {
	store := memory.NewDocumentStore()
	registry := &mockRegistry{err: fmt.Errorf("%w: unreadable scan", domain.ErrExtractionFailed)}
	svc := NewIngestService(store, registry, &mockPipeline{}, newMockEmbedder(), nil)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, sampleFile("binary junk"))

	require.NoError(t, err, "extraction trouble must not fail ingestion")
	assert.True(t, result.UsedPlaceholder)
	assert.Equal(t, domain.ExtractionPlaceholder, result.Document.ExtractedText)
	assert.Positive(t, result.ChunkCount, "the placeholder itself is chunked and embedded")
}

func TestIngest_EmptyExtractionUsesPlaceholder(t *testing.T) {
	store := memory.NewDocumentStore()
	registry := &mockRegistry{text: "   \n  "}
	svc := NewIngestService(store, registry, &mockPipeline{}, newMockEmbedder(), nil)

	result, err := svc.Ingest(context.Background(), sampleFile("scanned"))

	require.NoError(t, err)
	assert.True(t, result.UsedPlaceholder)
	assert.Equal(t, domain.ExtractionPlaceholder, result.Document.ExtractedText)
}

func TestIngest_EmbeddingFailureAbortsAndCleansUp(t *testing.T) {
	store := memory.NewDocumentStore()
	embedder := newMockEmbedder()
	embedder.failAll = true
	svc := NewIngestService(store, &mockRegistry{}, &mockPipeline{}, embedder, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, sampleFile("some text"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	docs, listErr := store.ListByOwner(ctx, "user-1")
	require.NoError(t, listErr)
	assert.Empty(t, docs, "no half-ingested document may remain queryable")
}

func TestIngest_PipelineFailureAbortsAndCleansUp(t *testing.T) {
	store := memory.NewDocumentStore()
	pipeline := &mockPipeline{err: fmt.Errorf("processor exploded")}
	svc := NewIngestService(store, &mockRegistry{}, pipeline, newMockEmbedder(), nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, sampleFile("some text"))

	require.Error(t, err)
	docs, listErr := store.ListByOwner(ctx, "user-1")
	require.NoError(t, listErr)
	assert.Empty(t, docs)
}

func TestIngest_RejectsEmptyInput(t *testing.T) {
	svc := newTestIngestService(memory.NewDocumentStore())
	ctx := context.Background()

	_, err := svc.Ingest(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, &domain.SourceFile{OwnerID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, &domain.SourceFile{Content: []byte("text")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_DetachedSummaryWritesThrough(t *testing.T) {
	store := memory.NewDocumentStore()
	provider := &mockSummariser{name: "primary", summary: "Short summary."}
	chain := NewSummaryChain([]driven.Summariser{provider}, store, domain.SummarySettings{})
	svc := NewIngestService(store, &mockRegistry{}, &mockPipeline{}, newMockEmbedder(), chain)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, sampleFile("needs a summary"))
	require.NoError(t, err)

	// Ingestion has returned; the summary arrives asynchronously.
	svc.Wait()

	doc, err := store.GetDocument(ctx, result.Document.ID)
	require.NoError(t, err)
	require.True(t, doc.HasSummary())
	assert.Equal(t, "Short summary.", *doc.Summary)
}

func TestIngest_SummaryFailureDoesNotFailIngestion(t *testing.T) {
	store := memory.NewDocumentStore()
	provider := &mockSummariser{name: "primary", err: fmt.Errorf("provider down")}
	chain := NewSummaryChain([]driven.Summariser{provider}, store, domain.SummarySettings{TimeoutSeconds: 1})
	svc := NewIngestService(store, &mockRegistry{}, &mockPipeline{}, newMockEmbedder(), chain)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, sampleFile("summary will fail"))
	require.NoError(t, err)
	svc.Wait()

	doc, getErr := store.GetDocument(ctx, result.Document.ID)
	require.NoError(t, getErr)
	assert.False(t, doc.HasSummary(), "summary stays unset after a total chain failure")
	assert.Positive(t, result.ChunkCount)
}

func TestIngestFile_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labs.txt")
	require.NoError(t, os.WriteFile(path, []byte("glucose 92 mg/dl\nhba1c 5.4%"), 0o600))

	store := memory.NewDocumentStore()
	svc := newTestIngestService(store)

	result, err := svc.IngestFile(context.Background(), "user-1", path)

	require.NoError(t, err)
	assert.Equal(t, "labs.txt", result.Document.FileName)
	assert.Equal(t, "text/plain", result.Document.FileType)
	assert.Equal(t, 2, result.ChunkCount)
}

func TestIngestFile_MissingFile(t *testing.T) {
	svc := newTestIngestService(memory.NewDocumentStore())

	_, err := svc.IngestFile(context.Background(), "user-1", "/does/not/exist.txt")

	assert.Error(t, err)
}

func TestStatus_ReportsChunkAndSummaryState(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(store)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, sampleFile("one line"))
	require.NoError(t, err)

	status, err := svc.Status(ctx, result.Document.ID)
	require.NoError(t, err)
	assert.True(t, status.ChunksStored)
	assert.Equal(t, 1, status.ChunkCount)
	assert.False(t, status.SummaryReady)

	require.NoError(t, store.UpdateSummary(ctx, result.Document.ID, "done"))

	status, err = svc.Status(ctx, result.Document.ID)
	require.NoError(t, err)
	assert.True(t, status.SummaryReady)
}

func TestStatus_UnknownDocument(t *testing.T) {
	svc := newTestIngestService(memory.NewDocumentStore())

	_, err := svc.Status(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"report.pdf", "application/pdf"},
		{"notes.txt", "text/plain"},
		{"summary.md", "text/markdown"},
		{"README", "text/plain"},
		{"data.bin.unknownext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMIMEType(tt.path))
		})
	}
}
