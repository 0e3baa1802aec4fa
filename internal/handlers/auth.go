package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/account"
)

type AuthHandler struct {
	Accounts *account.Service
	Gate     *auth.Gate
}

func NewAuthHandler(accounts *account.Service, gate *auth.Gate) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Gate: gate}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req account.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sess, err := h.Accounts.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Registration successful", sess)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req account.LoginInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sess, err := h.Accounts.Login(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Login successful", sess)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"user": u})
}
