package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// stageStub replaces the received chunks with its own, or fails.
type stageStub struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (s *stageStub) Name() string { return s.name }

func (s *stageStub) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.chunks != nil {
		return s.chunks, nil
	}
	return chunks, nil
}

func pipelineDoc() *domain.Document {
	return &domain.Document{
		ID:            "doc-1",
		ExtractedText: "Haemoglobin 14.1 g/dL. Glucose 92 mg/dL.",
	}
}

func TestPipeline_Empty(t *testing.T) {
	p := NewPipeline()
	require.Zero(t, p.Len())

	chunks, err := p.Process(context.Background(), pipelineDoc())
	require.NoError(t, err)
	assert.Nil(t, chunks, "no stages, no chunks")
}

func TestPipeline_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.Error(t, err)
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&stageStub{name: "chunker"})
	assert.Equal(t, 1, p.Len())
}

func TestPipeline_StagesRunInOrder(t *testing.T) {
	created := []domain.Chunk{{ID: "c1", Content: "Haemoglobin 14.1 g/dL."}}
	rewritten := []domain.Chunk{
		{ID: "c1", Content: "Haemoglobin 14.1 g/dL."},
		{ID: "c2", Content: "Glucose 92 mg/dL."},
	}

	p := NewPipeline(
		&stageStub{name: "chunker", chunks: created},
		&stageStub{name: "splitter", chunks: rewritten},
	)

	chunks, err := p.Process(context.Background(), pipelineDoc())
	require.NoError(t, err)
	assert.Equal(t, rewritten, chunks, "the last stage's output wins")
}

func TestPipeline_PassthroughStageKeepsChunks(t *testing.T) {
	created := []domain.Chunk{{ID: "c1", Content: "Haemoglobin 14.1 g/dL."}}

	p := NewPipeline(
		&stageStub{name: "chunker", chunks: created},
		&stageStub{name: "redactor"}, // nothing to redact
	)

	chunks, err := p.Process(context.Background(), pipelineDoc())
	require.NoError(t, err)
	assert.Equal(t, created, chunks)
}

func TestPipeline_StageFailureStopsProcessing(t *testing.T) {
	boom := errors.New("chunking failed")

	p := NewPipeline(
		&stageStub{name: "chunker", err: boom},
		&stageStub{name: "redactor", chunks: []domain.Chunk{{ID: "never"}}},
	)

	_, err := p.Process(context.Background(), pipelineDoc())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "chunker", "error names the failing stage")
}
