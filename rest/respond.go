package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type errorBody struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// respondError maps a rich error onto an HTTP status and a stable JSON
// shape. Internal detail stays in the logs; clients get the message and
// text code only.
func (ct *Controller) respondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	ct.logger.Error(
		"operation failed: %s category=%s text_code=%s details=%s",
		richErr.Message,
		richErr.Category,
		richErr.TextCode,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.Status(status).JSON(errorResponse{
		Error: errorBody{
			Message:  richErr.Message,
			TextCode: string(richErr.TextCode),
		},
	})
}

func invalidPayload(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, "invalid operation input").
		WithCode(errors.CodeBadRequest)
}
