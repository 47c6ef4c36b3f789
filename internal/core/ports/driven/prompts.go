package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. These define the contract between prompt
// consumers and providers.
const (
	// PromptGenerateExplanation asks for an explanation document.
	// The template expects %s placeholders for the topic and the JSON shape.
	PromptGenerateExplanation = "generate_explanation"

	// PromptChatSystem is the tutor system instruction.
	// The template expects a %s placeholder for the step context block.
	PromptChatSystem = "chat_system"
)

// PromptStoreAware is an optional interface for collaborators that can use
// custom prompts injected after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, built-in defaults are used.
	SetPromptStore(store PromptStore)
}
