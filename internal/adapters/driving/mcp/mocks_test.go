package mcp

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
)

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	result *domain.AnswerResult
	err    error
}

func (m *mockAssistantService) Ask(_ context.Context, _, _ string) (*domain.AnswerResult, error) {
	return m.result, m.err
}

func (m *mockAssistantService) Validate(_ *domain.AssistantResponse) domain.ValidationResult {
	return domain.NewValidationResult(nil)
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	err       error
}

func (m *mockDocumentService) ListByOwner(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result *domain.IngestResult
	status *domain.IngestStatus
	err    error
}

func (m *mockIngestService) IngestFile(_ context.Context, _, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) Ingest(_ context.Context, _ *domain.SourceFile) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) Status(_ context.Context, _ string) (*domain.IngestStatus, error) {
	return m.status, m.err
}

func (m *mockIngestService) Wait() {}
