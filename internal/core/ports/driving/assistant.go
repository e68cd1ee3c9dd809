package driving

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// AssistantService answers questions grounded in a user's documents.
type AssistantService interface {
	// Ask retrieves the most relevant chunks for the question, generates a
	// structured response and validates it before returning.
	Ask(ctx context.Context, ownerID, question string) (*domain.AnswerResult, error)

	// Validate runs the medical safety checks over a response without
	// generating anything. It never returns an error; problems surface as
	// flags on the result.
	Validate(response *domain.AssistantResponse) domain.ValidationResult
}
