package cli

import (
	"context"
	"errors"
	"time"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
)

// setupTestServices installs stub services seeded with fixture data and
// returns a cleanup function restoring the previous services.
func setupTestServices() func() {
	oldIngest := ingestService
	oldDocument := documentService
	oldAssistant := assistantService
	oldSettings := settingsService

	SetServices(Services{
		Ingest:    &stubIngestService{},
		Document:  newStubDocumentService(),
		Assistant: &stubAssistantService{},
		Settings:  &stubSettingsService{settings: domain.DefaultAppSettings()},
	})

	return func() {
		ingestService = oldIngest
		documentService = oldDocument
		assistantService = oldAssistant
		settingsService = oldSettings
	}
}

func fixtureSummary() *string {
	s := "Lab results within normal range."
	return &s
}

func fixtureDocument() domain.Document {
	return domain.Document{
		ID:        "doc-1",
		OwnerID:   "default",
		SourceURI: "file:///tmp/lab_report.pdf",
		FileName:  "lab_report.pdf",
		FileType:  "application/pdf",
		Summary:   fixtureSummary(),
		PageCount: 2,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 1, 10, 0, 5, 0, time.UTC),
	}
}

// --- Mock implementations ---

type stubDocumentService struct {
	docs map[string]domain.Document
}

var _ driving.DocumentService = (*stubDocumentService)(nil)

func newStubDocumentService() *stubDocumentService {
	doc := fixtureDocument()
	return &stubDocumentService{docs: map[string]domain.Document{doc.ID: doc}}
}

func (s *stubDocumentService) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, doc := range s.docs {
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *stubDocumentService) Get(_ context.Context, documentID string) (*domain.Document, error) {
	doc, ok := s.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (s *stubDocumentService) GetContent(_ context.Context, documentID string) (string, error) {
	if _, ok := s.docs[documentID]; !ok {
		return "", domain.ErrNotFound
	}
	return "This is the content of the test document.", nil
}

func (s *stubDocumentService) GetDetails(_ context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, ok := s.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &driving.DocumentDetails{
		ID:           doc.ID,
		OwnerID:      doc.OwnerID,
		FileName:     doc.FileName,
		FileType:     doc.FileType,
		SourceURI:    doc.SourceURI,
		ChunkCount:   3,
		PageCount:    doc.PageCount,
		Summary:      *doc.Summary,
		SummaryReady: true,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (s *stubDocumentService) Delete(_ context.Context, documentID string) error {
	if _, ok := s.docs[documentID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, documentID)
	return nil
}

// stubDocumentServiceEmpty has no documents at all.
type stubDocumentServiceEmpty struct {
	stubDocumentService
}

func newStubDocumentServiceEmpty() *stubDocumentServiceEmpty {
	return &stubDocumentServiceEmpty{stubDocumentService{docs: map[string]domain.Document{}}}
}

// stubDocumentServiceError fails every call.
type stubDocumentServiceError struct{}

var _ driving.DocumentService = (*stubDocumentServiceError)(nil)

var errStub = errors.New("storage unavailable")

func (s *stubDocumentServiceError) ListByOwner(context.Context, string) ([]domain.Document, error) {
	return nil, errStub
}

func (s *stubDocumentServiceError) Get(context.Context, string) (*domain.Document, error) {
	return nil, errStub
}

func (s *stubDocumentServiceError) GetContent(context.Context, string) (string, error) {
	return "", errStub
}

func (s *stubDocumentServiceError) GetDetails(context.Context, string) (*driving.DocumentDetails, error) {
	return nil, errStub
}

func (s *stubDocumentServiceError) Delete(context.Context, string) error {
	return errStub
}

type stubIngestService struct {
	waited bool
}

var _ driving.IngestService = (*stubIngestService)(nil)

func (s *stubIngestService) IngestFile(_ context.Context, ownerID, path string) (*domain.IngestResult, error) {
	doc := fixtureDocument()
	doc.ID = "doc-new"
	doc.OwnerID = ownerID
	doc.SourceURI = path
	return &domain.IngestResult{Document: &doc, ChunkCount: 3}, nil
}

func (s *stubIngestService) Ingest(_ context.Context, file *domain.SourceFile) (*domain.IngestResult, error) {
	doc := fixtureDocument()
	doc.ID = "doc-new"
	doc.OwnerID = file.OwnerID
	doc.FileName = file.FileName
	return &domain.IngestResult{Document: &doc, ChunkCount: 3}, nil
}

func (s *stubIngestService) Status(_ context.Context, documentID string) (*domain.IngestStatus, error) {
	return &domain.IngestStatus{
		DocumentID:   documentID,
		ChunkCount:   3,
		ChunksStored: true,
		SummaryReady: true,
	}, nil
}

func (s *stubIngestService) Wait() {
	s.waited = true
}

type stubAssistantService struct {
	askErr error
}

var _ driving.AssistantService = (*stubAssistantService)(nil)

func (s *stubAssistantService) Ask(_ context.Context, _, question string) (*domain.AnswerResult, error) {
	if s.askErr != nil {
		return nil, s.askErr
	}
	return &domain.AnswerResult{
		Question: question,
		Response: domain.AssistantResponse{
			VoiceSummary: "You take Metformin 500mg twice daily.",
		},
		Validation: domain.NewValidationResult(nil),
		Sources: []domain.RetrievedSource{
			{DocumentID: "doc-1", FileName: "lab_report.pdf", ChunkIndex: 0, Score: 0.91},
		},
	}, nil
}

func (s *stubAssistantService) Validate(response *domain.AssistantResponse) domain.ValidationResult {
	var flags []string
	if response != nil {
		for _, entry := range response.StructuredData.MedicationEntries() {
			if entry.DrugName == "Fakeamol" {
				flags = append(flags, "unknown drug name: Fakeamol")
			}
		}
	}
	return domain.NewValidationResult(flags)
}

type stubSettingsService struct {
	settings domain.AppSettings
	chain    []string
}

var _ driving.SettingsService = (*stubSettingsService)(nil)

func (s *stubSettingsService) Get() (*domain.AppSettings, error) {
	settings := s.settings
	return &settings, nil
}

func (s *stubSettingsService) Save(settings *domain.AppSettings) error {
	s.settings = *settings
	return nil
}

func (s *stubSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	s.settings.Embedding.Provider = provider
	s.settings.Embedding.Model = model
	s.settings.Embedding.APIKey = apiKey
	return nil
}

func (s *stubSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	s.settings.LLM.Provider = provider
	s.settings.LLM.Model = model
	s.settings.LLM.APIKey = apiKey
	return nil
}

func (s *stubSettingsService) SetSummaryChain(chain []string) error {
	for _, entry := range chain {
		if entry != domain.SummaryProviderExtractive && !domain.AIProvider(entry).IsValid() {
			return domain.ErrInvalidInput
		}
	}
	s.chain = chain
	s.settings.Summary.Chain = chain
	return nil
}

func (s *stubSettingsService) Validate() error { return nil }

func (s *stubSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (s *stubSettingsService) ValidateEmbeddingConfig() error { return nil }

func (s *stubSettingsService) ValidateLLMConfig() error { return nil }
