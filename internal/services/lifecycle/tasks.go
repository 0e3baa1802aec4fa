package lifecycle

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type TaskInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Country     string   `json:"country" validate:"required,oneof=RO MD"`
	City        string   `json:"city" validate:"omitempty,max=100"`
	Address     string   `json:"address"`
	IsRemote    bool     `json:"isRemote"`
	BudgetMin   *float64 `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax   *float64 `json:"budgetMax" validate:"omitempty,min=0"`
	Currency    string   `json:"currency" validate:"omitempty,oneof=MDL RON EUR USD"`
	Skills      []string `json:"skills" validate:"omitempty,max=20,dive,required,max=50"`
	Deadline    string   `json:"deadline"`
}

// TaskUpdate holds the fields a PUT may change. Nil means unchanged.
type TaskUpdate struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Country     *string   `json:"country" validate:"omitempty,oneof=RO MD"`
	City        *string   `json:"city" validate:"omitempty,max=100"`
	Address     *string   `json:"address"`
	IsRemote    *bool     `json:"isRemote"`
	BudgetMin   *float64  `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax   *float64  `json:"budgetMax" validate:"omitempty,min=0"`
	Currency    *string   `json:"currency" validate:"omitempty,oneof=MDL RON EUR USD"`
	Skills      *[]string `json:"skills" validate:"omitempty,max=20,dive,required,max=50"`
	Deadline    *string   `json:"deadline"`
	Status      *string   `json:"status"`
}

type ListQuery struct {
	Country string
	City    string
	Status  string
	Page    int
	Limit   int
}

func (c *Controller) CreateTask(ctx context.Context, caller *models.User, in TaskInput) (*TaskView, error) {
	if err := auth.RequireRole(caller, models.UserTypeClient); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	in.City = strings.TrimSpace(in.City)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}

	fields := apperr.FieldErrors{}
	checkBudget(fields, in.BudgetMin, in.BudgetMax)
	deadline := parseDeadline(fields, in.Deadline)
	if len(fields) > 0 {
		return nil, apperr.Fields(fields)
	}

	currency := models.Currency(in.Currency)
	if currency == "" {
		currency = models.CurrencyMDL
	}

	t := &models.Task{
		ClientID:    caller.ID,
		Title:       in.Title,
		Description: in.Description,
		Country:     in.Country,
		City:        in.City,
		Address:     strings.TrimSpace(in.Address),
		IsRemote:    in.IsRemote,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Currency:    currency,
		Skills:      skillsJSON(in.Skills),
		Status:      models.TaskOpen,
		Deadline:    deadline,
	}
	if err := c.store.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	logger.Info("task created", "task_id", t.ID, "client_id", caller.ID)

	t.Client = caller
	v := taskView(t)
	return &v, nil
}

func (c *Controller) ListTasks(ctx context.Context, q ListQuery) (*TaskPage, error) {
	status := models.TaskOpen
	if s := strings.TrimSpace(q.Status); s != "" {
		status = models.TaskStatus(strings.ToLower(s))
		if !status.Valid() {
			fields := apperr.FieldErrors{}
			fields.Add("status", "must be a valid task status")
			return nil, apperr.Fields(fields)
		}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	tasks, total, err := c.store.Tasks.List(ctx, repository.TaskFilter{
		Country: strings.ToUpper(strings.TrimSpace(q.Country)),
		City:    strings.TrimSpace(q.City),
		Status:  status,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = taskView(&tasks[i])
	}
	return &TaskPage{
		Tasks: views,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
			Limit: limit,
		},
	}, nil
}

func (c *Controller) GetTask(ctx context.Context, id uuid.UUID) (*TaskView, error) {
	t, err := c.store.Tasks.FindWithClient(ctx, id)
	if err != nil {
		return nil, err
	}
	v := taskView(t)
	return &v, nil
}

// UpdateTask edits task details. Status moves only through the lifecycle
// operations.
func (c *Controller) UpdateTask(ctx context.Context, caller *models.User, id uuid.UUID, in TaskUpdate) (*TaskView, error) {
	var out *models.Task
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Lock(ctx, id)
		if err != nil {
			return err
		}
		if t.ClientID != caller.ID {
			return apperr.Forbidden("Only the task owner can update this task")
		}
		if t.Status.IsTerminal() {
			return apperr.Conflict("A " + string(t.Status) + " task cannot be edited")
		}
		if err := c.applyUpdate(t, in); err != nil {
			return err
		}
		if err := tx.Tasks.Save(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.Client = nil
	if owner, err := c.store.Users.FindByID(ctx, out.ClientID); err == nil {
		out.Client = owner
	}
	v := taskView(out)
	return &v, nil
}

func (c *Controller) applyUpdate(t *models.Task, in TaskUpdate) error {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(in.Title)
	trim(in.Description)
	trim(in.City)
	trim(in.Address)
	if in.Country != nil {
		*in.Country = strings.ToUpper(strings.TrimSpace(*in.Country))
	}
	if in.Currency != nil {
		*in.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if err := c.validate.Struct(in); err != nil {
		return err
	}

	fields := apperr.FieldErrors{}
	if in.Status != nil && models.TaskStatus(*in.Status) != t.Status {
		fields.Add("status", "cannot be changed by editing the task")
	}

	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Country != nil {
		t.Country = *in.Country
	}
	if in.City != nil {
		t.City = *in.City
	}
	if in.Address != nil {
		t.Address = *in.Address
	}
	if in.IsRemote != nil {
		t.IsRemote = *in.IsRemote
	}
	if in.BudgetMin != nil {
		t.BudgetMin = in.BudgetMin
	}
	if in.BudgetMax != nil {
		t.BudgetMax = in.BudgetMax
	}
	if in.Currency != nil && *in.Currency != "" {
		t.Currency = models.Currency(*in.Currency)
	}
	if in.Skills != nil {
		t.Skills = skillsJSON(*in.Skills)
	}
	if in.Deadline != nil {
		t.Deadline = parseDeadline(fields, *in.Deadline)
	}
	checkBudget(fields, t.BudgetMin, t.BudgetMax)

	if len(fields) > 0 {
		return apperr.Fields(fields)
	}
	return nil
}

// DeleteTask removes the task along with its proposals and reviews.
func (c *Controller) DeleteTask(ctx context.Context, caller *models.User, id uuid.UUID) error {
	return c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Lock(ctx, id)
		if err != nil {
			return err
		}
		if t.ClientID != caller.ID {
			return apperr.Forbidden("Only the task owner can delete this task")
		}
		if t.Status == models.TaskCompleted {
			return apperr.Conflict("A completed task cannot be deleted")
		}
		if err := tx.Proposals.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.Reviews.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		logger.Info("task deleted", "task_id", id, "client_id", caller.ID)
		return nil
	})
}

// CompleteTask closes an assigned task and pays the accepted proposal's
// price into the freelancer's wallet. Completing twice is a no-op.
func (c *Controller) CompleteTask(ctx context.Context, caller *models.User, id uuid.UUID) (*TaskView, error) {
	var (
		out   *models.Task
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Lock(ctx, id)
		if err != nil {
			return err
		}
		if t.ClientID != caller.ID {
			return apperr.Forbidden("Only the task owner can complete this task")
		}
		out = t
		if t.Status == models.TaskCompleted {
			return nil
		}
		if !t.Status.CanTransitionTo(models.TaskCompleted) {
			return apperr.Conflict("Only an assigned task can be completed")
		}

		accepted, err := tx.Proposals.FindAccepted(ctx, id)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return apperr.Conflict("Task has no accepted proposal")
			}
			return err
		}

		ok, err := tx.Tasks.TransitionStatus(ctx, id, models.TaskCompleted.Sources(), models.TaskCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Task status changed, try again")
		}
		t.Status = models.TaskCompleted

		if err := c.wallet.CreditFreelancer(tx.DB(), accepted.FreelancerID, accepted.Price, t.ID, "Payout for task: "+t.Title); err != nil {
			return err
		}

		queue.add(accepted.FreelancerID, realtime.Event{
			Type:       realtime.EventTaskCompleted,
			TaskID:     t.ID,
			ProposalID: ptr(accepted.ID),
			Message:    "Task marked as completed",
		})
		logger.Info("task completed", "task_id", id, "freelancer_id", accepted.FreelancerID, "amount", accepted.Price)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)

	out.Client = caller
	v := taskView(out)
	return &v, nil
}

// StartTask lets the accepted freelancer move an assigned task into
// progress.
func (c *Controller) StartTask(ctx context.Context, caller *models.User, id uuid.UUID) (*TaskView, error) {
	var (
		out   *models.Task
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Lock(ctx, id)
		if err != nil {
			return err
		}
		accepted, err := tx.Proposals.FindAccepted(ctx, id)
		if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}
		if accepted == nil || accepted.FreelancerID != caller.ID {
			return apperr.Forbidden("Only the assigned freelancer can start this task")
		}

		ok, err := tx.Tasks.TransitionStatus(ctx, id, []models.TaskStatus{models.TaskAssigned}, models.TaskInProgress)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Only an assigned task can be started")
		}
		t.Status = models.TaskInProgress
		out = t

		queue.add(t.ClientID, realtime.Event{
			Type:    realtime.EventTaskStarted,
			TaskID:  t.ID,
			Message: "Work on your task has started",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)
	return c.GetTask(ctx, out.ID)
}

// CancelTask cancels a live task and rejects any proposals still pending.
func (c *Controller) CancelTask(ctx context.Context, caller *models.User, id uuid.UUID) (*TaskView, error) {
	var (
		out   *models.Task
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Lock(ctx, id)
		if err != nil {
			return err
		}
		if t.ClientID != caller.ID {
			return apperr.Forbidden("Only the task owner can cancel this task")
		}
		if t.Status.IsTerminal() {
			return apperr.Conflict("A " + string(t.Status) + " task cannot be cancelled")
		}

		pending, err := tx.Proposals.ListByTaskAndStatus(ctx, id, models.ProposalPending)
		if err != nil {
			return err
		}
		accepted, err := tx.Proposals.FindAccepted(ctx, id)
		if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}

		ok, err := tx.Tasks.TransitionStatus(ctx, id, models.TaskCancelled.Sources(), models.TaskCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Task status changed, try again")
		}
		t.Status = models.TaskCancelled

		if _, err := tx.Proposals.RejectPending(ctx, id, uuid.Nil); err != nil {
			return err
		}

		ev := realtime.Event{Type: realtime.EventTaskCancelled, TaskID: id, Message: "Task was cancelled by the client"}
		for _, p := range pending {
			queue.add(p.FreelancerID, ev)
		}
		if accepted != nil {
			queue.add(accepted.FreelancerID, ev)
		}
		out = t
		logger.Info("task cancelled", "task_id", id, "rejected", len(pending))
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)

	out.Client = caller
	v := taskView(out)
	return &v, nil
}

// Cities lists the distinct cities that currently have open tasks.
func (c *Controller) Cities(ctx context.Context, country string) ([]string, error) {
	return c.store.Tasks.Cities(ctx, strings.ToUpper(strings.TrimSpace(country)))
}

func checkBudget(fields apperr.FieldErrors, lo, hi *float64) {
	if lo != nil && hi != nil && *lo > *hi {
		fields.Add("budgetMax", "must be greater than or equal to budgetMin")
	}
}

// parseDeadline accepts RFC 3339 or a bare date. Empty clears the deadline.
func parseDeadline(fields apperr.FieldErrors, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	fields.Add("deadline", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	return nil
}

func skillsJSON(skills []string) datatypes.JSON {
	if skills == nil {
		return nil
	}
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	b, _ := json.Marshal(clean)
	return datatypes.JSON(b)
}
