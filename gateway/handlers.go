package gateway

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/hung319/askaiquestions2api/pkg/openai"
	"github.com/hung319/askaiquestions2api/pkg/stream"
	"github.com/hung319/askaiquestions2api/pkg/upstream"
)

// HeaderRequestID carries the correlation id back to the client.
const HeaderRequestID = "X-Request-Id"

func (g *Gateway) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": ServiceName,
		"version": Version,
	})
}

func (g *Gateway) handleModels(c *fiber.Ctx) error {
	return c.JSON(openai.NewModelList(g.config.Models, g.started, "askaiquestions"))
}

// handleChatCompletions translates one chat request into a single backend
// question and shapes the answer as either a completion object or a
// pseudo-stream of chunks. Validation failures never reach the backend.
func (g *Gateway) handleChatCompletions(c *fiber.Ctx) error {
	var req openai.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, openai.CodeInvalidRequest, "request body is not valid JSON")
	}
	if len(req.Messages) == 0 {
		return writeError(c, fiber.StatusBadRequest, openai.CodeInvalidRequest, "messages must not be empty")
	}

	model := req.Model
	if model == "" {
		model = g.config.DefaultModel
	}

	requestID := uuid.NewString()
	c.Set(HeaderRequestID, requestID)

	g.logger.Debug("received chat request",
		zap.String("request_id", requestID),
		zap.String("model", model),
		zap.Int("message_count", len(req.Messages)),
		zap.Bool("stream", req.Stream),
	)

	answer, err := g.asker.Ask(c.Context(), req.Messages, requestID)
	if err != nil {
		g.logger.Error("backend request failed",
			zap.String("request_id", requestID),
			zap.String("code", upstream.Code(err)),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusBadGateway, upstream.Code(err), err.Error())
	}

	if req.Stream {
		return g.streamCompletion(c, answer, requestID, model)
	}

	return c.JSON(openai.NewCompletion(answer, requestID, model))
}

// streamCompletion replays the full answer as server-sent events. The
// emitter owns pacing and termination; a failed flush means the client went
// away and the emission loop stops.
func (g *Gateway) streamCompletion(c *fiber.Ctx, answer, requestID, model string) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	logger := g.logger
	emitter := g.emitter
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sink := stream.NewSSEWriter(w)
		if err := emitter.Emit(context.Background(), sink, answer, requestID, model); err != nil {
			logger.Warn("stream ended early",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}))

	return nil
}
