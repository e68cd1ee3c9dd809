package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// maxUploadBytes bounds multipart uploads. Medical documents are small;
// anything larger is almost certainly a mistake.
const maxUploadBytes = 32 << 20

// ownerHeader carries the owner ID for vault operations. Absent header
// means the default single-user owner.
const ownerHeader = "X-MedVault-User"

// Handler holds the driving ports the API calls into.
type Handler struct {
	ingest    driving.IngestService
	documents driving.DocumentService
	assistant driving.AssistantService
}

// NewHandler builds the API handler. All services are required.
func NewHandler(ingest driving.IngestService, documents driving.DocumentService, assistant driving.AssistantService) (*Handler, error) {
	if ingest == nil {
		return nil, errors.New("ingest service is required")
	}
	if documents == nil {
		return nil, errors.New("document service is required")
	}
	if assistant == nil {
		return nil, errors.New("assistant service is required")
	}
	return &Handler{
		ingest:    ingest,
		documents: documents,
		assistant: assistant,
	}, nil
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// documentView is the JSON shape for a stored document.
type documentView struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	FileType     string `json:"file_type"`
	Summary      string `json:"summary,omitempty"`
	SummaryReady bool   `json:"summary_ready"`
	CreatedAt    string `json:"created_at"`
}

func toDocumentView(doc *domain.Document) documentView {
	v := documentView{
		ID:           doc.ID,
		FileName:     doc.FileName,
		FileType:     doc.FileType,
		SummaryReady: doc.HasSummary(),
		CreatedAt:    doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if doc.HasSummary() {
		v.Summary = *doc.Summary
	}
	return v
}

// ListDocuments returns the caller's documents, newest first.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListByOwner(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]documentView, 0, len(docs))
	for i := range docs {
		views = append(views, toDocumentView(&docs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": views})
}

// UploadDocument ingests a multipart file upload. The file goes through
// the full pipeline synchronously; only summarisation is detached.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart request: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `multipart field "file" is required`, http.StatusBadRequest)
		return
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	source := &domain.SourceFile{
		OwnerID:   ownerFrom(r),
		SourceURI: "upload://" + header.Filename,
		FileName:  header.Filename,
		MIMEType:  header.Header.Get("Content-Type"),
		Content:   content,
	}

	result, err := h.ingest.Ingest(r.Context(), source)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyExists {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"document":         toDocumentView(result.Document),
		"chunk_count":      result.ChunkCount,
		"already_exists":   result.AlreadyExists,
		"used_placeholder": result.UsedPlaceholder,
	})
}

// GetDocument returns document metadata.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	details, err := h.documents.GetDetails(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            details.ID,
		"file_name":     details.FileName,
		"file_type":     details.FileType,
		"source_uri":    details.SourceURI,
		"chunk_count":   details.ChunkCount,
		"page_count":    details.PageCount,
		"summary":       details.Summary,
		"summary_ready": details.SummaryReady,
		"created_at":    details.CreatedAt,
		"updated_at":    details.UpdatedAt,
	})
}

// GetDocumentContent returns the document's full extracted text.
func (h *Handler) GetDocumentContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.documents.GetContent(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, content) //nolint:errcheck // Response write
}

// GetDocumentStatus reports ingestion progress for a document.
func (h *Handler) GetDocumentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.ingest.Status(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"document_id":   status.DocumentID,
		"chunk_count":   status.ChunkCount,
		"chunks_stored": status.ChunksStored,
		"summary_ready": status.SummaryReady,
	})
}

// DeleteDocument removes a document and its chunks.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a question grounded in the caller's documents.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.assistant.Ask(r.Context(), ownerFrom(r), req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Validate runs the medical safety checks over a response supplied by
// the caller, without generating anything.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var response domain.AssistantResponse
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.assistant.Validate(&response))
}

// ownerFrom resolves the owner ID for a request.
func ownerFrom(r *http.Request) string {
	if owner := r.Header.Get(ownerHeader); owner != "" {
		return owner
	}
	return "default"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP status codes. Unrecognised
// errors become 500s with a generic body; details go to the log, not
// the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnsupportedType):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
	case errors.Is(err, domain.ErrRateLimited):
		http.Error(w, "rate limited, retry later", http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrLLMUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		logger.Error("Request failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
