package openai

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Model    string    `json:"model,omitempty"`  // Requested model id; gateway default applies when empty
	Messages []Message `json:"messages"`         // Conversation history
	Stream   bool      `json:"stream,omitempty"` // Whether to stream the response (default: false)
}
