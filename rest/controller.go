// Package rest exposes the feed over a single operation-dispatch endpoint.
//
// Clients POST {"operation": name, "input": {...}} to /api. Read operations
// work anonymously; mutations guard themselves through the request context,
// so the transport layer never decides authorization on its own.
package rest

import (
	"context"
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/warblehq/warble"
	"github.com/warblehq/warble/storage"
)

// LoginService exchanges external identity tokens for session tokens.
// *warble.SessionIssuer satisfies it.
type LoginService interface {
	Login(ctx context.Context, externalToken string) (string, error)
}

// Uploader issues presigned upload URLs. *storage.Uploads satisfies it.
type Uploader interface {
	SignedUploadURL(ctx context.Context, accountID, fileName, fileType string) (*storage.SignedUpload, error)
}

type operationHandler func(c *fiber.Ctx, input json.RawMessage) error

// Controller routes dispatch operations to their handlers.
type Controller struct {
	login   LoginService
	repo    warble.RepositoryManager
	uploads Uploader
	logger  warble.Logger
	ops     map[string]operationHandler
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger overrides the default stdout logger.
func WithLogger(logger warble.Logger) Option {
	return func(ct *Controller) {
		if logger != nil {
			ct.logger = logger
		}
	}
}

// NewController wires the dispatch table. All dependencies are required
// except uploads; without it the signed URL operation answers that uploads
// are not configured.
func NewController(login LoginService, repo warble.RepositoryManager, uploads Uploader, opts ...Option) *Controller {
	ct := &Controller{
		login:   login,
		repo:    repo,
		uploads: uploads,
		logger:  warble.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(ct)
	}

	ct.ops = map[string]operationHandler{
		"verifyGoogleToken":    ct.verifyGoogleToken,
		"getCurrentUser":       ct.getCurrentUser,
		"getUserById":          ct.getUserByID,
		"getAllTweets":         ct.getAllTweets,
		"getUserTweets":        ct.getUserTweets,
		"getFollowers":         ct.getFollowers,
		"getFollowing":         ct.getFollowing,
		"createTweet":          ct.createTweet,
		"deleteTweet":          ct.deleteTweet,
		"followUser":           ct.followUser,
		"unfollowUser":         ct.unfollowUser,
		"getSignedURLForTweet": ct.signedURLForTweet,
	}

	return ct
}

// RegisterRoutes mounts the health check and the dispatch endpoint.
func (ct *Controller) RegisterRoutes(app *fiber.App) {
	app.Get("/", ct.Health)
	app.Post("/api", ct.Dispatch)
}

// Health answers a plain liveness probe.
func (ct *Controller) Health(c *fiber.Ctx) error {
	return c.SendString("Everything is good")
}

type dispatchEnvelope struct {
	Operation string          `json:"operation"`
	Input     json.RawMessage `json:"input"`
}

// Validate will validate the payload.
func (e dispatchEnvelope) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Operation, validation.Required, validation.Length(1, 100)),
	)
}

// Dispatch decodes the operation envelope and hands off to the named handler.
func (ct *Controller) Dispatch(c *fiber.Ctx) error {
	var env dispatchEnvelope
	if err := json.Unmarshal(c.Body(), &env); err != nil {
		return ct.respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := env.Validate(); err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	handler, ok := ct.ops[env.Operation]
	if !ok {
		return ct.respondError(c, errors.New("unknown operation", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"operation": env.Operation}))
	}

	return handler(c, env.Input)
}
