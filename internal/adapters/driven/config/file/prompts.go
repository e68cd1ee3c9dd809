package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves LLM prompt templates from user-editable files
// under the prompt directory, seeded from the embedded defaults. The
// directory and seed files are created lazily on first Load, so
// constructing the store performs no I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	seedOnce  sync.Once
	seedErr   error
}

// defaultPrompts seed the prompt directory and serve as fallback when
// a file cannot be read.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSummarise: `Summarise the following medical document in %d characters or less.
Be concise, keep medication names and dosages exactly as written, and do not add information that is not in the document.

Content:
%s

Summary:`,

	driven.PromptAnswer: `You are a careful assistant answering questions about a patient's own medical documents.
Answer using ONLY the context below. If the context does not contain the answer, say so plainly.
Never give a diagnosis or treatment advice; point the user back to their clinician for those.

Context:
%s

Question: %s

Respond with a JSON object of the form
{"voice_summary": "<short spoken-style answer>", "structured_data": {"type": "medication_list", "data": [{"drug_name": "...", "dosage": "...", "frequency": "..."}]}}
Include structured_data only when your answer mentions specific medications; omit it otherwise.

Answer:`,
}

// NewPromptStore creates a prompt store rooted at promptDir. An empty
// promptDir means ~/.medvault/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for name, preferring the on-disk file and
// falling back to the embedded default. Results are cached until
// Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	// Read without holding the lock.
	prompt, err := s.readFile(name)
	if err != nil {
		if fallback, ok := defaultPrompts[name]; ok {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	// A concurrent Load may have won; keep its value so callers see
	// one consistent template.
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload drops the cache so edited files take effect.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// seed creates the prompt directory, the default template files and a
// README. Existing files are left alone so user edits survive.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.seedErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	s.seedErr = s.writeReadme()
}

func (s *PromptStore) readFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) writeReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# MedVault Prompts

This directory contains customisable prompts used by MedVault's LLM features.

## Files

- ` + "`summarise.txt`" + ` - Summarises ingested document content
- ` + "`answer.txt`" + ` - Answers questions grounded in retrieved document chunks

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command or after restarting the server.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the content, context or question)
- ` + "`%d`" + ` - Integer (e.g., max summary length)

Ensure customised prompts maintain placeholders in the correct positions.
The answer prompt must keep its JSON response instructions so responses
stay machine-readable.
`
	return os.WriteFile(path, []byte(content), 0600)
}
