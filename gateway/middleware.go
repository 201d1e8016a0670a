package gateway

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hung319/askaiquestions2api/pkg/openai"
)

// requireAuth demands a bearer token exactly matching the configured secret.
// Tokens are compared as SHA-256 digests in constant time.
func (g *Gateway) requireAuth(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || token == "" {
		return writeError(c, fiber.StatusUnauthorized, openai.CodeInvalidAPIKey, "missing bearer token")
	}

	tokenHash := sha256.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(tokenHash[:], g.keyHash[:]) != 1 {
		return writeError(c, fiber.StatusUnauthorized, openai.CodeInvalidAPIKey, "invalid API key")
	}

	return c.Next()
}

// knownPaths is the exact routing surface. Requests outside it are 404;
// a known path reached with an unrouted method is 405.
var knownPaths = map[string]bool{
	"/":                    true,
	"/v1/models":           true,
	"/v1/chat/completions": true,
}

// handleUnmatched terminates requests no route claimed.
func (g *Gateway) handleUnmatched(c *fiber.Ctx) error {
	if !knownPaths[c.Path()] {
		return writeError(c, fiber.StatusNotFound, openai.CodeNotFound,
			fmt.Sprintf("no route for %s", c.Path()))
	}

	return writeError(c, fiber.StatusMethodNotAllowed, openai.CodeMethodNotAllowed,
		fmt.Sprintf("%s is not allowed on %s", c.Method(), c.Path()))
}

// writeError renders the uniform error envelope.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(openai.NewError(code, message))
}
