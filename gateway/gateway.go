// Package gateway exposes an OpenAI-compatible chat completion surface and
// translates it onto the synchronous ask/answer backend.
package gateway

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/hung319/askaiquestions2api/pkg/stream"
	"github.com/hung319/askaiquestions2api/pkg/upstream"
)

const (
	// ServiceName identifies the gateway in health responses and in the
	// User-Agent sent to the backend.
	ServiceName = "askaiquestions2api"

	// Version is the gateway release version.
	Version = "1.1.0"
)

// Gateway is the protocol-translation server. It is stateless across
// requests: everything it holds is read-only after New.
type Gateway struct {
	config  Config
	logger  *zap.Logger
	asker   upstream.Asker
	emitter *stream.Emitter
	server  *fiber.App

	keyHash [32]byte // SHA-256 of the configured API key, compared in constant time
	started int64    // unix time the process came up; doubles as model creation time
}

// New wires the routes and middleware for a validated configuration.
func New(config Config, logger *zap.Logger) (*Gateway, error) {
	emitter, err := stream.New(config.StreamChunkSize, config.StreamDelay())
	if err != nil {
		return nil, fmt.Errorf("configure stream emitter: %w", err)
	}

	g := &Gateway{
		config:  config,
		logger:  logger,
		asker:   upstream.New(config.UpstreamURL, ServiceName+"/"+Version, logger),
		emitter: emitter,
		keyHash: sha256.Sum256([]byte(config.APIKey)),
		started: time.Now().Unix(),
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Enable streaming
		StreamRequestBody: true,
	})

	app.Use(g.logRequests)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
	}))

	app.Get("/", g.handleHealth)

	// Preflight succeeds without credentials; auth applies to everything
	// else under /v1.
	app.Options("/v1/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1 := app.Group("/v1", g.requireAuth)
	v1.Get("/models", g.handleModels)
	v1.Post("/chat/completions", g.handleChatCompletions)

	app.Use(g.handleUnmatched)

	g.server = app
	return g, nil
}

// Run starts the gateway on the configured address and blocks.
func (g *Gateway) Run() error {
	g.logger.Info("starting gateway",
		zap.String("listen", g.config.ListenAddr),
		zap.String("upstream", g.config.UpstreamURL),
		zap.Int("chunk_size", g.config.StreamChunkSize),
		zap.Duration("chunk_delay", g.config.StreamDelay()),
	)

	return g.server.Listen(g.config.ListenAddr)
}

// Shutdown stops accepting connections and drains in-flight requests.
func (g *Gateway) Shutdown(timeout time.Duration) error {
	return g.server.ShutdownWithTimeout(timeout)
}

// logRequests emits one structured line per completed request.
func (g *Gateway) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	g.logger.Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", c.GetRespHeader(HeaderRequestID)),
	)

	return err
}
