package openai

import "time"

// Completion represents a non-streaming chat completion response.
type Completion struct {
	ID      string   `json:"id"`      // "chatcmpl-<request id>"
	Object  string   `json:"object"`  // Always "chat.completion"
	Created int64    `json:"created"` // Unix seconds
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice holds the single assistant answer. The gateway never produces more
// than one choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage mirrors the OpenAI token accounting block. The backend reports no
// token counts, so all fields stay zero.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionID derives the completion id from the request correlation id.
func CompletionID(requestID string) string {
	return "chatcmpl-" + requestID
}

// NewCompletion shapes a full backend answer into a completion object.
func NewCompletion(text, requestID, model string) Completion {
	return Completion{
		ID:      CompletionID(requestID),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{{
			Index:        0,
			Message:      Message{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
	}
}
