package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/lifecycle"
)

type ReviewHandler struct {
	Gate      *auth.Gate
	Lifecycle *lifecycle.Controller
}

func NewReviewHandler(gate *auth.Gate, lc *lifecycle.Controller) *ReviewHandler {
	return &ReviewHandler{Gate: gate, Lifecycle: lc}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	var req lifecycle.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	rv, err := h.Lifecycle.CreateReview(c.UserContext(), u, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Review submitted", rv)
}

// CompleteTask lives under /reviews because completion is what opens a
// task for reviews.
func (h *ReviewHandler) CompleteTask(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	taskID, err := parseID(c, "taskId")
	if err != nil {
		return fail(c, err)
	}
	task, err := h.Lifecycle.CompleteTask(c.UserContext(), u, taskID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Task completed", task)
}

func (h *ReviewHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Lifecycle.ListUserReviews(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}
