// Package upstream implements the client for the synchronous ask/answer
// backend the gateway translates onto.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hung319/askaiquestions2api/pkg/openai"
)

// Asker performs one question round-trip against the backend and returns
// the full answer text or a typed failure.
type Asker interface {
	Ask(ctx context.Context, messages []openai.Message, requestID string) (string, error)
}

// Client issues single best-effort requests to the backend. There is no
// client-side timeout and no retry: the gateway surfaces whatever the
// backend does.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a backend client for the given ask endpoint URL.
func New(url, userAgent string, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		userAgent:  userAgent,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// askRequest re-wraps the chat messages under the backend's payload key.
type askRequest struct {
	Questions []openai.Message `json:"questions"`
}

// askResponse is the expected success body. A missing or non-string answer
// is a contract violation.
type askResponse struct {
	Answer *string `json:"answer"`
}

// Ask sends the conversation to the backend and returns the answer text.
// Failures map to one of UnreachableError, StatusError or ContractError.
func (c *Client) Ask(ctx context.Context, messages []openai.Message, requestID string) (string, error) {
	body, err := json.Marshal(askRequest{Questions: messages})
	if err != nil {
		return "", fmt.Errorf("marshal ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("forwarding question to backend",
		zap.String("url", c.url),
		zap.String("request_id", requestID),
		zap.Int("message_count", len(messages)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnreachableError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed askResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ContractError{Reason: "response is not the expected JSON shape", Err: err}
	}
	if parsed.Answer == nil {
		return "", &ContractError{Reason: `missing "answer" field`}
	}

	return *parsed.Answer, nil
}
