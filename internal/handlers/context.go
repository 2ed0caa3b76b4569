package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errNoCaller = errors.New("no authenticated caller")

// parseCallerID reads the authenticated user id the auth middleware stored in
// request locals.
func parseCallerID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errNoCaller
	}
	callerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errNoCaller
	}
	return callerID, nil
}
