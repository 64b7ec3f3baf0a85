package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// defaultPrompts contains the compiled-in prompt templates. A
// prompts.toml file in the config directory overrides them per name.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQASystem: `You are CareSync AI, a helpful clinic assistant. Answer the user's question based only on the provided context from the clinic's documents. If the context does not contain enough information to answer, say that you don't know and avoid making up information. Be concise.`,

	driven.PromptQAUser: `Context:
%s

User question: %s

Answer:`,

	driven.PromptNoContextAnswer: `I don't have enough information in the clinic's documents to answer that. Try rephrasing the question, or check that the relevant document has been ingested.`,

	driven.PromptDegradedAnswer: `I found relevant documents but was unable to generate an answer right now. The sources below may still help; please try again shortly.`,
}

// PromptStore loads LLM prompts from a user-editable prompts.toml file,
// falling back to compiled defaults for any name the file does not set.
//
// The file is read lazily on first access; Reload drops the parsed
// overrides so the next Load picks up edits.
type PromptStore struct {
	mu        sync.RWMutex
	filePath  string
	overrides map[string]string
	loaded    bool
	loadErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If configDir is empty, defaults to ~/.caresync/prompts.toml.
//
// The constructor performs no I/O - the file is read on first Load.
func NewPromptStore(configDir string) (*PromptStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".caresync")
	}

	return &PromptStore{
		filePath:  filepath.Join(configDir, "prompts.toml"),
		overrides: make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name, preferring a
// prompts.toml override over the compiled default.
func (s *PromptStore) Load(name string) (string, error) {
	s.ensureLoaded()

	s.mu.RLock()
	override, ok := s.overrides[name]
	loadErr := s.loadErr
	s.mu.RUnlock()

	if ok {
		return override, nil
	}
	if prompt, ok := defaultPrompts[name]; ok {
		return prompt, nil
	}
	if loadErr != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, loadErr)
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// Reload clears the parsed overrides, forcing a fresh read on next access.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

// Path returns the prompts file path.
func (s *PromptStore) Path() string {
	return s.filePath
}

// ensureLoaded parses prompts.toml once. A missing file is fine; a
// broken one is remembered so Load can report it for unknown names
// while defaults keep working.
func (s *PromptStore) ensureLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return
	}
	s.loaded = true
	s.overrides = make(map[string]string)
	s.loadErr = nil

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.loadErr = err
		}
		return
	}

	var parsed map[string]string
	if err := toml.Unmarshal(data, &parsed); err != nil {
		s.loadErr = err
		return
	}

	for name, content := range parsed {
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			s.overrides[name] = trimmed
		}
	}
}
