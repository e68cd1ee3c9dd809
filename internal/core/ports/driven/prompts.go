package driven

// PromptStore serves LLM prompt templates by name. The file adapter
// reads user-editable files; other implementations could embed them
// or fetch them remotely.
type PromptStore interface {
	// Load returns the template for name. Whether a missing name is
	// an error or falls back to a default is up to the implementation.
	Load(name string) (string, error)

	// Reload drops any cached templates so on-disk edits take effect.
	Reload()
}

// Prompt names shared between consumers and stores.
const (
	// PromptSummarise summarises document content. The template takes
	// %d (max length) and %s (content).
	PromptSummarise = "summarise"

	// PromptAnswer answers a question over retrieved context. The
	// template takes %s (context) and %s (question).
	PromptAnswer = "answer"
)

// PromptStoreAware marks services whose prompts can be customised by
// injecting a PromptStore after construction. Without one, a service
// uses its built-in defaults.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
