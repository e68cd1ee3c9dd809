package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
)

func newTestRouter(t *testing.T) (http.Handler, *fakeVault) {
	t.Helper()

	vault := newFakeVault()
	handler, err := NewHandler(vault, vault, vault)
	require.NoError(t, err)
	return NewRouter(handler), vault
}

func TestNewHandler_RequiresServices(t *testing.T) {
	vault := newFakeVault()

	_, err := NewHandler(nil, vault, vault)
	assert.ErrorContains(t, err, "ingest service is required")

	_, err = NewHandler(vault, nil, vault)
	assert.ErrorContains(t, err, "document service is required")

	_, err = NewHandler(vault, vault, nil)
	assert.ErrorContains(t, err, "assistant service is required")
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestListDocuments(t *testing.T) {
	t.Run("returns default owner's documents", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "doc-1")
		assert.Contains(t, rec.Body.String(), "lab_report.pdf")
	})

	t.Run("scopes by owner header", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set(ownerHeader, "someone-else")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "doc-1")
	})
}

func TestUploadDocument(t *testing.T) {
	t.Run("ingests multipart upload", func(t *testing.T) {
		router, vault := newTestRouter(t)

		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "prescription.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("Metformin 500mg twice daily"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"already_exists":false`)
		require.NotNil(t, vault.lastIngested)
		assert.Equal(t, "prescription.txt", vault.lastIngested.FileName)
		assert.Equal(t, "default", vault.lastIngested.OwnerID)
		assert.Equal(t, "upload://prescription.txt", vault.lastIngested.SourceURI)
	})

	t.Run("duplicate upload returns 200", func(t *testing.T) {
		router, vault := newTestRouter(t)
		vault.duplicate = true

		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "prescription.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("same bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"already_exists":true`)
	})

	t.Run("missing file field is a 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("other", "x"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetDocument(t *testing.T) {
	t.Run("returns metadata", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "lab_report.pdf")
		assert.Contains(t, rec.Body.String(), `"summary_ready":true`)
	})

	t.Run("unknown document is a 404", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetDocumentContent(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/content", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Haemoglobin 14.1")
}

func TestGetDocumentStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chunks_stored":true`)
	assert.Contains(t, rec.Body.String(), `"summary_ready":true`)
}

func TestDeleteDocument(t *testing.T) {
	t.Run("deletes and returns 204", func(t *testing.T) {
		router, vault := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotContains(t, vault.docs, "doc-1")
	})

	t.Run("unknown document is a 404", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAsk(t *testing.T) {
	t.Run("answers a question", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := strings.NewReader(`{"question": "what do I take?"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ask", body))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "You take Metformin 500mg twice daily.")
	})

	t.Run("invalid JSON is a 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader("{nope")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("llm unavailable maps to 503", func(t *testing.T) {
		router, vault := newTestRouter(t)
		vault.askErr = domain.ErrLLMUnavailable

		body := strings.NewReader(`{"question": "anything"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ask", body))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("blank question maps to 400", func(t *testing.T) {
		router, vault := newTestRouter(t)
		vault.askErr = domain.ErrInvalidInput

		body := strings.NewReader(`{"question": ""}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ask", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidate(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := `{
		"voice_summary": "Take your medication.",
		"structured_data": {
			"type": "medication_list",
			"data": [{"drug_name": "Fakeamol"}]
		}
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/validate", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"unknown drug name: Fakeamol"}, result.Flags)
}

// --- Mock implementations ---

// fakeVault implements all three driving ports over an in-memory map.
type fakeVault struct {
	docs         map[string]domain.Document
	lastIngested *domain.SourceFile
	duplicate    bool
	askErr       error
}

var (
	_ driving.IngestService    = (*fakeVault)(nil)
	_ driving.DocumentService  = (*fakeVault)(nil)
	_ driving.AssistantService = (*fakeVault)(nil)
)

func newFakeVault() *fakeVault {
	summary := "Lab results within normal range."
	return &fakeVault{
		docs: map[string]domain.Document{
			"doc-1": {
				ID:       "doc-1",
				OwnerID:  "default",
				FileName: "lab_report.pdf",
				FileType: "application/pdf",
				Summary:  &summary,
			},
		},
	}
}

func (f *fakeVault) IngestFile(ctx context.Context, ownerID, path string) (*domain.IngestResult, error) {
	return f.Ingest(ctx, &domain.SourceFile{OwnerID: ownerID, SourceURI: path, FileName: path})
}

func (f *fakeVault) Ingest(_ context.Context, file *domain.SourceFile) (*domain.IngestResult, error) {
	f.lastIngested = file
	doc := domain.Document{
		ID:       "doc-new",
		OwnerID:  file.OwnerID,
		FileName: file.FileName,
		FileType: file.MIMEType,
	}
	return &domain.IngestResult{Document: &doc, ChunkCount: 2, AlreadyExists: f.duplicate}, nil
}

func (f *fakeVault) Status(_ context.Context, documentID string) (*domain.IngestStatus, error) {
	if _, ok := f.docs[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.IngestStatus{
		DocumentID:   documentID,
		ChunkCount:   2,
		ChunksStored: true,
		SummaryReady: true,
	}, nil
}

func (f *fakeVault) Wait() {}

func (f *fakeVault) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, doc := range f.docs {
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (f *fakeVault) Get(_ context.Context, documentID string) (*domain.Document, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (f *fakeVault) GetContent(_ context.Context, documentID string) (string, error) {
	if _, ok := f.docs[documentID]; !ok {
		return "", domain.ErrNotFound
	}
	return "Haemoglobin 14.1 g/dL", nil
}

func (f *fakeVault) GetDetails(_ context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &driving.DocumentDetails{
		ID:           doc.ID,
		OwnerID:      doc.OwnerID,
		FileName:     doc.FileName,
		FileType:     doc.FileType,
		ChunkCount:   2,
		Summary:      *doc.Summary,
		SummaryReady: true,
	}, nil
}

func (f *fakeVault) Delete(_ context.Context, documentID string) error {
	if _, ok := f.docs[documentID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.docs, documentID)
	return nil
}

func (f *fakeVault) Ask(_ context.Context, _, question string) (*domain.AnswerResult, error) {
	if f.askErr != nil {
		return nil, f.askErr
	}
	return &domain.AnswerResult{
		Question:   question,
		Response:   domain.AssistantResponse{VoiceSummary: "You take Metformin 500mg twice daily."},
		Validation: domain.NewValidationResult(nil),
	}, nil
}

func (f *fakeVault) Validate(response *domain.AssistantResponse) domain.ValidationResult {
	var flags []string
	for _, entry := range response.StructuredData.MedicationEntries() {
		if entry.DrugName == "Fakeamol" {
			flags = append(flags, "unknown drug name: Fakeamol")
		}
	}
	return domain.NewValidationResult(flags)
}
