package rest

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/warblehq/warble"
)

// decode unmarshals an operation input and runs its validation rules.
func decode[T validation.Validatable](input json.RawMessage) (T, error) {
	var payload T
	if len(input) > 0 {
		if err := json.Unmarshal(input, &payload); err != nil {
			return payload, errors.Wrap(err, errors.CategoryBadInput, "failed to parse operation input").
				WithCode(errors.CodeBadRequest)
		}
	}
	if err := payload.Validate(); err != nil {
		return payload, invalidPayload(err)
	}
	return payload, nil
}

// VerifyTokenPayload carries the external identity token to exchange.
type VerifyTokenPayload struct {
	Token string `json:"token"`
}

// Validate will validate the payload.
func (p VerifyTokenPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
	)
}

func (ct *Controller) verifyGoogleToken(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[VerifyTokenPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	token, err := ct.login.Login(c.UserContext(), payload.Token)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

func (ct *Controller) getCurrentUser(c *fiber.Ctx, _ json.RawMessage) error {
	// A query, not a mutation: anonymous callers read back null instead of
	// an auth error.
	viewer, ok := warble.ViewerFromContext(c.UserContext())
	if !ok {
		return c.JSON(nil)
	}

	account, err := ct.repo.Users().ResolveByID(c.UserContext(), viewer.ID)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(account)
}

// IdentifierPayload addresses an operation at a single record.
type IdentifierPayload struct {
	ID string `json:"id"`
}

// Validate will validate the payload.
func (p IdentifierPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, is.UUID),
	)
}

func (p IdentifierPayload) parseID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}

func (ct *Controller) getUserByID(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	id, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	account, err := ct.repo.Users().ResolveByID(c.UserContext(), id)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(account)
}

// FeedPayload bounds how much of the feed comes back.
type FeedPayload struct {
	Limit int `json:"limit"`
}

// Validate will validate the payload.
func (p FeedPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Min(0), validation.Max(200)),
	)
}

func (ct *Controller) getAllTweets(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[FeedPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	records, err := ct.repo.Tweets().ListRecent(c.UserContext(), payload.Limit)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(records)
}

func (ct *Controller) getUserTweets(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	id, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	records, err := ct.repo.Tweets().ListByAuthor(c.UserContext(), id)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(records)
}

func (ct *Controller) getFollowers(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	id, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	accounts, err := ct.repo.Follows().Followers(c.UserContext(), id)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(accounts)
}

func (ct *Controller) getFollowing(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	id, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	accounts, err := ct.repo.Follows().Following(c.UserContext(), id)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(accounts)
}

// CreateTweetPayload is the authoring input.
type CreateTweetPayload struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// Validate will validate the payload.
func (p CreateTweetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Content, validation.Required, validation.Length(1, 280)),
		validation.Field(&p.ImageURL, is.URL),
	)
}

func (ct *Controller) createTweet(c *fiber.Ctx, input json.RawMessage) error {
	viewer, err := warble.RequireViewer(c.UserContext())
	if err != nil {
		return ct.respondError(c, err)
	}

	payload, err := decode[CreateTweetPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	record, err := ct.repo.Tweets().Create(c.UserContext(), &warble.Tweet{
		Content:  payload.Content,
		ImageURL: payload.ImageURL,
		AuthorID: viewer.ID,
	})
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (ct *Controller) deleteTweet(c *fiber.Ctx, input json.RawMessage) error {
	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	id, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	record, err := ct.repo.Tweets().ResolveByID(c.UserContext(), id)
	if err != nil {
		return ct.respondError(c, err)
	}

	if _, err := warble.RequireOwner(c.UserContext(), record.AuthorID); err != nil {
		return ct.respondError(c, err)
	}

	if err := ct.repo.Tweets().Delete(c.UserContext(), record.ID); err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(fiber.Map{"deleted": true, "id": record.ID})
}

func (ct *Controller) followUser(c *fiber.Ctx, input json.RawMessage) error {
	viewer, err := warble.RequireViewer(c.UserContext())
	if err != nil {
		return ct.respondError(c, err)
	}

	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	targetID, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	if targetID == viewer.ID {
		return ct.respondError(c, errors.New("accounts cannot follow themselves", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest))
	}

	// Confirm the target exists so the follow edge never dangles.
	if _, err := ct.repo.Users().ResolveByID(c.UserContext(), targetID); err != nil {
		return ct.respondError(c, err)
	}

	if err := ct.repo.Follows().Follow(c.UserContext(), viewer.ID, targetID); err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(fiber.Map{"following": true, "user_id": targetID})
}

func (ct *Controller) unfollowUser(c *fiber.Ctx, input json.RawMessage) error {
	viewer, err := warble.RequireViewer(c.UserContext())
	if err != nil {
		return ct.respondError(c, err)
	}

	payload, err := decode[IdentifierPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	targetID, err := payload.parseID()
	if err != nil {
		return ct.respondError(c, invalidPayload(err))
	}

	if err := ct.repo.Follows().Unfollow(c.UserContext(), viewer.ID, targetID); err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(fiber.Map{"following": false, "user_id": targetID})
}

// SignedURLPayload describes the file the client intends to upload.
type SignedURLPayload struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

// Validate will validate the payload.
func (p SignedURLPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FileName, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.FileType, validation.Required),
	)
}

func (ct *Controller) signedURLForTweet(c *fiber.Ctx, input json.RawMessage) error {
	viewer, err := warble.RequireViewer(c.UserContext())
	if err != nil {
		return ct.respondError(c, err)
	}

	if ct.uploads == nil {
		return ct.respondError(c, errors.New("uploads are not configured", errors.CategoryOperation).
			WithCode(errors.CodeInternal))
	}

	payload, err := decode[SignedURLPayload](input)
	if err != nil {
		return ct.respondError(c, err)
	}

	signed, err := ct.uploads.SignedUploadURL(c.UserContext(), viewer.ID.String(), payload.FileName, payload.FileType)
	if err != nil {
		return ct.respondError(c, err)
	}

	return c.JSON(signed)
}
