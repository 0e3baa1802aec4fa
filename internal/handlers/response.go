package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

func ok(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// fail writes err in the standard envelope. Anything outside the apperr
// taxonomy is logged and reported as an internal error.
func fail(c *fiber.Ctx, err error) error {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		logger.WithError(err).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
		)
	}

	body := fiber.Map{
		"success": false,
		"message": e.Message,
		"error":   string(e.Kind),
	}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	return c.Status(e.Kind.HTTPStatus()).JSON(body)
}

// ErrorHandler renders errors that escape handlers, such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := apperr.KindInternal
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			kind = apperr.KindNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			kind = apperr.KindValidation
		case fiber.StatusUnauthorized:
			kind = apperr.KindUnauthenticated
		case fiber.StatusForbidden:
			kind = apperr.KindForbidden
		}
		if kind != apperr.KindInternal {
			return fail(c, apperr.New(kind, fe.Message))
		}
	}
	return fail(c, err)
}

func currentUser(c *fiber.Ctx, gate *auth.Gate) (*models.User, error) {
	return gate.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		fields := apperr.FieldErrors{}
		fields.Add(param, "must be a valid id")
		return uuid.Nil, apperr.Fields(fields)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
