package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/lifecycle"
)

type TaskHandler struct {
	Gate      *auth.Gate
	Lifecycle *lifecycle.Controller
}

func NewTaskHandler(gate *auth.Gate, lc *lifecycle.Controller) *TaskHandler {
	return &TaskHandler{Gate: gate, Lifecycle: lc}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	var req lifecycle.TaskInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	task, err := h.Lifecycle.CreateTask(c.UserContext(), u, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Task created", task)
}

// List query: country, city, status (default open), page, limit.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	page, err := h.Lifecycle.ListTasks(c.UserContext(), lifecycle.ListQuery{
		Country: c.Query("country"),
		City:    c.Query("city"),
		Status:  c.Query("status"),
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", 20),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", page)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	task, err := h.Lifecycle.GetTask(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req lifecycle.TaskUpdate
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	task, err := h.Lifecycle.UpdateTask(c.UserContext(), u, id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Task updated", task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.Lifecycle.DeleteTask(c.UserContext(), u, id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Task deleted", nil)
}

func (h *TaskHandler) Start(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	task, err := h.Lifecycle.StartTask(c.UserContext(), u, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Task started", task)
}

func (h *TaskHandler) Cancel(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	task, err := h.Lifecycle.CancelTask(c.UserContext(), u, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Task cancelled", task)
}
