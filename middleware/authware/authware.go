// Package authware attaches a viewer identity to incoming requests.
//
// The middleware never rejects a request: a missing or invalid token leaves
// the request anonymous and lets the handler decide whether that is
// acceptable. Authorization lives with the operations, not with transport.
package authware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/warblehq/warble"
)

var defaultHeader = fiber.HeaderAuthorization

type Config struct {
	// Validator validates raw session tokens. Required.
	Validator warble.TokenValidator

	// Filter skips the middleware entirely when it returns true.
	Filter func(*fiber.Ctx) bool

	// Header to read the token from. Defaults to Authorization.
	Header string

	// AuthScheme stripped from the header value. Defaults to Bearer.
	AuthScheme string

	// ContextKey under which validated claims are stored in fiber locals.
	// Defaults to "viewer".
	ContextKey string

	Logger warble.Logger
}

// New creates the middleware. It panics without a Validator since an auth
// middleware with nothing to validate against is a wiring mistake.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := tokenFromHeader(c.Get(cfg.Header), cfg.AuthScheme)
		if raw == "" {
			return c.Next()
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			cfg.Logger.Warn("authware: rejecting presented token: %v", err)
			return c.Next()
		}

		viewer, ok := warble.ViewerFromClaims(claims)
		if !ok {
			cfg.Logger.Warn("authware: token claims carry no usable identity")
			return c.Next()
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(warble.WithViewer(c.UserContext(), viewer))

		return c.Next()
	}
}

// ClaimsFromCtx returns the validated claims the middleware stored, if any.
func ClaimsFromCtx(c *fiber.Ctx, contextKey string) (*warble.SessionClaims, bool) {
	if contextKey == "" {
		contextKey = "viewer"
	}
	claims, ok := c.Locals(contextKey).(*warble.SessionClaims)
	return claims, ok && claims != nil
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("AUTHWARE: middleware configuration: Validator is required.")
	}

	if cfg.Header == "" {
		cfg.Header = defaultHeader
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "viewer"
	}

	if cfg.Logger == nil {
		cfg.Logger = warble.DefaultLogger()
	}

	return cfg
}

func tokenFromHeader(header, authScheme string) string {
	if header == "" {
		return ""
	}
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:])
	}
	// Some clients send the bare token with no scheme.
	if !strings.ContainsRune(header, ' ') {
		return header
	}
	return ""
}
