package driven

// PromptStore resolves prompt templates by name. A store that cannot
// find a user template returns the built-in one for well-known names,
// and an error for anything else.
type PromptStore interface {
	Load(name string) (string, error)
}

// Prompt names the synthesizer asks for.
const (
	// PromptAnswer is formatted with two %s verbs: the joined context
	// chunks, then the question.
	PromptAnswer = "answer"

	// PromptAnswerSystem is sent verbatim as the system instruction.
	PromptAnswerSystem = "answer_system"
)

// PromptStoreAware is implemented by services whose prompts can be
// overridden. Without a store they use compiled-in templates.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
