package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptQASystem is the system prompt for grounded question answering.
	// This prompt has no format placeholders.
	PromptQASystem = "qa_system"

	// PromptQAUser wraps the composed context and the question.
	// The template expects %s (context block) and %s (question) placeholders.
	PromptQAUser = "qa_user"

	// PromptNoContextAnswer is the fixed reply when retrieval finds nothing.
	// This prompt has no format placeholders.
	PromptNoContextAnswer = "no_context_answer"

	// PromptDegradedAnswer is the fixed reply when synthesis fails after
	// retrieval succeeded. This prompt has no format placeholders.
	PromptDegradedAnswer = "degraded_answer"
)
