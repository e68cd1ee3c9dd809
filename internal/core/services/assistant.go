package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// Retrieval parameters for question answering.
const (
	// DefaultTopK is how many chunks ground an answer.
	DefaultTopK = 5

	// DefaultScoreFloor is the minimum cosine similarity for a chunk
	// to be used as context. Vectors are L2-normalised, so this is a
	// plain dot-product threshold.
	DefaultScoreFloor = 0.25

	// answerMaxTokens bounds the generated answer length.
	answerMaxTokens = 1024
)

// defaultAnswerPrompt grounds the model in retrieved context and asks
// for the AssistantResponse JSON shape. Expects context then question.
const defaultAnswerPrompt = `You are a careful assistant answering questions about a patient's own medical documents.
Answer using ONLY the context below. If the context does not contain the answer, say so plainly.
Never give a diagnosis or treatment advice; point the user back to their clinician for those.

Context:
%s

Question: %s

Respond with a single JSON object, no markdown fences:
{"voice_summary": "<short spoken-style answer>", "structured_data": {"type": "medication_list", "data": [{"drug_name": "...", "dosage": "...", "frequency": "..."}]}}
Omit structured_data when the answer involves no medications.`

// AssistantService answers questions grounded in a user's documents:
// embed the question, score the owner's chunks by cosine similarity,
// prompt the LLM over the best matches and validate the response.
type AssistantService struct {
	docStore  driven.DocumentStore
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	validator *MedicalValidator
	prompts   driven.PromptStore

	topK       int
	scoreFloor float64
}

// NewAssistantService creates the question answering service.
// The LLM may be nil; Ask then fails with domain.ErrLLMUnavailable
// while Validate keeps working.
func NewAssistantService(
	docStore driven.DocumentStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	validator *MedicalValidator,
) *AssistantService {
	return &AssistantService{
		docStore:   docStore,
		embedder:   embedder,
		llm:        llm,
		validator:  validator,
		topK:       DefaultTopK,
		scoreFloor: DefaultScoreFloor,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *AssistantService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask retrieves the most relevant chunks for the question, generates a
// structured response and validates it before returning.
func (s *AssistantService) Ask(ctx context.Context, ownerID, question string) (*domain.AnswerResult, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("%w: configure one with 'medvault settings wizard'", domain.ErrLLMUnavailable)
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question must not be empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner ID must not be empty", domain.ErrInvalidInput)
	}

	logger.Section("Retrieval")
	sources, err := s.retrieve(ctx, ownerID, question)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d grounding chunks", len(sources))

	logger.Section("Generation")
	response, err := s.generate(ctx, question, sources)
	if err != nil {
		return nil, err
	}

	logger.Section("Validation")
	validation := s.validator.Validate(ctx, response)
	if !validation.IsValid {
		logger.Warn("Response raised %d safety flags", len(validation.Flags))
	}

	return &domain.AnswerResult{
		Question:   question,
		Response:   *response,
		Validation: validation,
		Sources:    sources,
	}, nil
}

// Validate runs the medical safety checks over a response without
// generating anything.
func (s *AssistantService) Validate(response *domain.AssistantResponse) domain.ValidationResult {
	return s.validator.Validate(context.Background(), response)
}

// retrieve embeds the question and scores every stored chunk of the
// owner by cosine similarity, keeping the topK above the floor.
// Brute force over the vault is deliberate: a personal document
// collection is thousands of chunks, not millions.
func (s *AssistantService) retrieve(ctx context.Context, ownerID, question string) ([]domain.RetrievedSource, error) {
	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	chunks, err := s.docStore.ChunksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	type scored struct {
		chunk domain.Chunk
		score float64
	}

	candidates := make([]scored, 0, len(chunks))
	for i := range chunks {
		score := cosineSimilarity(queryVec, chunks[i].Embedding)
		if score >= s.scoreFloor {
			candidates = append(candidates, scored{chunk: chunks[i], score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > s.topK {
		candidates = candidates[:s.topK]
	}

	// Resolve file names once per document for attribution.
	names := make(map[string]string)
	sources := make([]domain.RetrievedSource, 0, len(candidates))
	for _, c := range candidates {
		name, ok := names[c.chunk.DocumentID]
		if !ok {
			if doc, err := s.docStore.GetDocument(ctx, c.chunk.DocumentID); err == nil {
				name = doc.FileName
			}
			names[c.chunk.DocumentID] = name
		}
		sources = append(sources, domain.RetrievedSource{
			DocumentID: c.chunk.DocumentID,
			FileName:   name,
			ChunkIndex: c.chunk.Index,
			Score:      c.score,
			Excerpt:    c.chunk.Content,
		})
	}

	return sources, nil
}

// generate prompts the LLM over the retrieved context and decodes the
// structured response. A reply that is not the expected JSON degrades
// to a plain voice summary rather than failing the ask.
func (s *AssistantService) generate(ctx context.Context, question string, sources []domain.RetrievedSource) (*domain.AssistantResponse, error) {
	var contextText string
	if len(sources) == 0 {
		contextText = "(no matching documents found in the vault)"
	} else {
		parts := make([]string, len(sources))
		for i, src := range sources {
			parts[i] = fmt.Sprintf("[%s, part %d]\n%s", src.FileName, src.ChunkIndex+1, src.Excerpt)
		}
		contextText = strings.Join(parts, "\n\n")
	}

	prompt := fmt.Sprintf(s.answerPrompt(), contextText, question)

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return parseAssistantResponse(raw), nil
}

// answerPrompt returns the answer template, preferring the prompt store.
func (s *AssistantService) answerPrompt() string {
	if s.prompts != nil {
		if prompt, err := s.prompts.Load(driven.PromptAnswer); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultAnswerPrompt
}

// parseAssistantResponse decodes a model reply into the response
// contract. Markdown fences are stripped first; anything that still
// fails to decode becomes a plain voice summary.
func parseAssistantResponse(raw string) *domain.AssistantResponse {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var response domain.AssistantResponse
	if err := json.Unmarshal([]byte(text), &response); err == nil && response.VoiceSummary != "" {
		return &response
	}

	return &domain.AssistantResponse{VoiceSummary: strings.TrimSpace(raw)}
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched or empty vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
