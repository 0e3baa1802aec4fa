package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/lifecycle"
)

type LocationHandler struct {
	Lifecycle *lifecycle.Controller
}

func NewLocationHandler(lc *lifecycle.Controller) *LocationHandler {
	return &LocationHandler{Lifecycle: lc}
}

// GetCities lists cities that currently have open tasks, optionally for
// one country.
func (h *LocationHandler) GetCities(c *fiber.Ctx) error {
	cities, err := h.Lifecycle.Cities(c.UserContext(), c.Query("country"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", cities)
}
