package llm

// ChatModel produces an assistant answer from a system prompt and a user
// prompt.
type ChatModel interface {
	Name() string
	Complete(systemPrompt, userPrompt string) (string, error)
}
