package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder returns deterministic vectors derived from the text so
// retrieval ordering can be asserted.
type mockEmbedder struct {
	dims    int
	failAll bool

	mu    sync.Mutex
	calls []string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: 4}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.failAll {
		return nil, fmt.Errorf("%w: mock failure", domain.ErrEmbeddingUnavailable)
	}
	return vectorFor(text, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// vectorFor maps a text onto a crude but deterministic unit vector.
// Texts sharing a first word land close together.
func vectorFor(text string, dims int) []float32 {
	vec := make([]float32, dims)
	first, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(text)), " ")
	idx := 0
	for _, r := range first {
		idx += int(r)
	}
	vec[idx%dims] = 1
	return vec
}

// mockSummariser either fails or returns a canned summary, recording
// the number of calls.
type mockSummariser struct {
	name    string
	summary string
	err     error

	mu    sync.Mutex
	calls int
}

func (m *mockSummariser) Summarise(_ context.Context, _ string, _ int) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

func (m *mockSummariser) ModelName() string { return m.name }

func (m *mockSummariser) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLM returns a fixed reply for Generate.
type mockLLM struct {
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) Summarise(_ context.Context, _ string, _ int) (string, error) {
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockDirectory knows a fixed set of drug names. Unknown names return
// domain.ErrNotFound; a configured outage returns a transport error.
type mockDirectory struct {
	known  map[string]bool
	outage bool
}

func newMockDirectory(names ...string) *mockDirectory {
	known := make(map[string]bool)
	for _, name := range names {
		known[strings.ToLower(name)] = true
	}
	return &mockDirectory{known: known}
}

func (m *mockDirectory) Lookup(_ context.Context, name string) (*domain.DrugInfo, error) {
	if m.outage {
		return nil, fmt.Errorf("lookup service unreachable")
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if m.known[key] {
		return &domain.DrugInfo{Name: name}, nil
	}
	return nil, domain.ErrNotFound
}

// mockRegistry extracts by echoing the file bytes as text, or fails.
type mockRegistry struct {
	text string
	err  error
}

func (m *mockRegistry) Extract(_ context.Context, file *domain.SourceFile) (*domain.ExtractionResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	text := m.text
	if text == "" {
		text = string(file.Content)
	}
	return &domain.ExtractionResult{Text: text}, nil
}

func (m *mockRegistry) Register(driven.Extractor) {}

func (m *mockRegistry) SupportedMIMETypes() []string { return []string{"text/plain"} }

// mockPipeline splits extracted text on newlines, one chunk per line.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}

	lines := strings.Split(strings.TrimSpace(doc.ExtractedText), "\n")
	chunks := make([]domain.Chunk, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s-%d", doc.ID, i),
			DocumentID: doc.ID,
			OwnerID:    doc.OwnerID,
			Index:      len(chunks),
			Content:    line,
			TokenCount: len(strings.Fields(line)),
		})
	}
	return chunks, nil
}
