package openai

// Chunk represents a single chunk in a streaming completion. Chunks share
// the id, model and created timestamp of their emission.
type Chunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // Always "chat.completion.chunk"
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice carries the delta of one chunk. FinishReason is null on
// content chunks and "stop" on the terminal chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental content payload. The terminal chunk has an empty
// delta.
type Delta struct {
	Content string `json:"content,omitempty"`
}

// NewContentChunk builds a chunk carrying the next slice of the answer.
func NewContentChunk(content, requestID, model string, created int64) Chunk {
	return Chunk{
		ID:      CompletionID(requestID),
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []ChunkChoice{{
			Index: 0,
			Delta: Delta{Content: content},
		}},
	}
}

// NewStopChunk builds the terminal chunk that ends an emission.
func NewStopChunk(requestID, model string, created int64) Chunk {
	reason := "stop"
	return Chunk{
		ID:      CompletionID(requestID),
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []ChunkChoice{{
			Index:        0,
			FinishReason: &reason,
		}},
	}
}
