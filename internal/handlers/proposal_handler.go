package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/lifecycle"
)

type ProposalHandler struct {
	Gate      *auth.Gate
	Lifecycle *lifecycle.Controller
}

func NewProposalHandler(gate *auth.Gate, lc *lifecycle.Controller) *ProposalHandler {
	return &ProposalHandler{Gate: gate, Lifecycle: lc}
}

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	var req lifecycle.ProposalInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	p, err := h.Lifecycle.CreateProposal(c.UserContext(), u, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Proposal submitted", p)
}

func (h *ProposalHandler) ListForTask(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	taskID, err := parseID(c, "taskId")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Lifecycle.ListTaskProposals(c.UserContext(), u, taskID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}

func (h *ProposalHandler) ListMine(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Lifecycle.ListMyProposals(c.UserContext(), u)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}

type proposalAction func(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Proposal, error)

// transition wraps the accept, reject and cancel endpoints, which share a
// shape.
func (h *ProposalHandler) transition(action proposalAction, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c, h.Gate)
		if err != nil {
			return fail(c, err)
		}
		id, err := parseID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		p, err := action(c.UserContext(), u, id)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.StatusOK, message, p)
	}
}

func (h *ProposalHandler) Accept() fiber.Handler {
	return h.transition(h.Lifecycle.AcceptProposal, "Proposal accepted")
}

func (h *ProposalHandler) Reject() fiber.Handler {
	return h.transition(h.Lifecycle.RejectProposal, "Proposal rejected")
}

func (h *ProposalHandler) Cancel() fiber.Handler {
	return h.transition(h.Lifecycle.CancelProposal, "Proposal cancelled")
}
