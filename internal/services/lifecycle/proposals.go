package lifecycle

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
)

type ProposalInput struct {
	TaskID        string  `json:"taskId" validate:"required,uuid"`
	Message       string  `json:"message" validate:"required,max=5000"`
	Price         float64 `json:"price" validate:"gt=0"`
	EstimatedDays *int    `json:"estimatedDays" validate:"omitempty,gt=0"`
}

func (c *Controller) CreateProposal(ctx context.Context, caller *models.User, in ProposalInput) (*models.Proposal, error) {
	if err := auth.RequireRole(caller, models.UserTypeFreelancer); err != nil {
		return nil, err
	}
	in.TaskID = strings.TrimSpace(in.TaskID)
	in.Message = strings.TrimSpace(in.Message)
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}
	taskID := uuid.MustParse(in.TaskID)

	var (
		p     *models.Proposal
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Lock(ctx, taskID)
		if err != nil {
			return err
		}
		if t.ClientID == caller.ID {
			return apperr.Forbidden("You cannot submit a proposal on your own task")
		}
		if t.Status != models.TaskOpen {
			return apperr.Conflict("Task is not open for proposals")
		}
		active, err := tx.Proposals.HasActive(ctx, taskID, caller.ID)
		if err != nil {
			return err
		}
		if active {
			return apperr.Conflict("You already have an active proposal on this task")
		}

		p = &models.Proposal{
			TaskID:        taskID,
			FreelancerID:  caller.ID,
			Message:       in.Message,
			Price:         in.Price,
			EstimatedDays: in.EstimatedDays,
			Status:        models.ProposalPending,
		}
		if err := tx.Proposals.Create(ctx, p); err != nil {
			return err
		}
		queue.add(t.ClientID, realtime.Event{
			Type:       realtime.EventProposalCreated,
			TaskID:     taskID,
			ProposalID: ptr(p.ID),
			Message:    "New proposal on " + t.Title,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)
	logger.Info("proposal created", "proposal_id", p.ID, "task_id", taskID, "freelancer_id", caller.ID)
	return p, nil
}

// AcceptProposal assigns the task to the proposal's author. The task row is
// locked and both status moves are compare-and-set, so of two concurrent
// accepts on one task exactly one succeeds; the loser gets Conflict. Every
// other pending proposal of the task is rejected in the same transaction.
func (c *Controller) AcceptProposal(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Proposal, error) {
	var (
		out   *models.Proposal
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Proposals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		t, err := tx.Tasks.Lock(ctx, p.TaskID)
		if err != nil {
			return err
		}
		if t.ClientID != caller.ID {
			return apperr.Forbidden("Only the task owner can accept proposals")
		}
		if t.Status != models.TaskOpen {
			return apperr.Conflict("Task is no longer open")
		}
		if p.Status != models.ProposalPending {
			return apperr.Conflict("Only pending proposals can be accepted")
		}

		ok, err := tx.Tasks.TransitionStatus(ctx, t.ID, []models.TaskStatus{models.TaskOpen}, models.TaskAssigned)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Task is no longer open")
		}
		ok, err = tx.Proposals.TransitionStatus(ctx, p.ID, models.ProposalPending, models.ProposalAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Only pending proposals can be accepted")
		}

		others, err := tx.Proposals.ListByTaskAndStatus(ctx, t.ID, models.ProposalPending)
		if err != nil {
			return err
		}
		if _, err := tx.Proposals.RejectPending(ctx, t.ID, p.ID); err != nil {
			return err
		}

		p.Status = models.ProposalAccepted
		out = p
		queue.add(p.FreelancerID, realtime.Event{
			Type:       realtime.EventProposalAccepted,
			TaskID:     t.ID,
			ProposalID: ptr(p.ID),
			Message:    "Your proposal was accepted",
		})
		for _, o := range others {
			if o.ID == p.ID {
				continue
			}
			queue.add(o.FreelancerID, realtime.Event{
				Type:       realtime.EventProposalRejected,
				TaskID:     t.ID,
				ProposalID: ptr(o.ID),
				Message:    "Another proposal was accepted",
			})
		}
		logger.Info("proposal accepted", "proposal_id", p.ID, "task_id", t.ID, "rejected", len(others))
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)
	return out, nil
}

func (c *Controller) RejectProposal(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Proposal, error) {
	var (
		out   *models.Proposal
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Proposals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		t, err := tx.Tasks.FindByID(ctx, p.TaskID)
		if err != nil {
			return err
		}
		if t.ClientID != caller.ID {
			return apperr.Forbidden("Only the task owner can reject proposals")
		}
		ok, err := tx.Proposals.TransitionStatus(ctx, p.ID, models.ProposalPending, models.ProposalRejected)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Only pending proposals can be rejected")
		}
		p.Status = models.ProposalRejected
		out = p
		queue.add(p.FreelancerID, realtime.Event{
			Type:       realtime.EventProposalRejected,
			TaskID:     t.ID,
			ProposalID: ptr(p.ID),
			Message:    "Your proposal was rejected",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)
	return out, nil
}

// CancelProposal withdraws the caller's own pending proposal.
func (c *Controller) CancelProposal(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Proposal, error) {
	var (
		out   *models.Proposal
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Proposals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p.FreelancerID != caller.ID {
			return apperr.Forbidden("Only the proposal author can cancel it")
		}
		ok, err := tx.Proposals.TransitionStatus(ctx, p.ID, models.ProposalPending, models.ProposalCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Only pending proposals can be cancelled")
		}
		p.Status = models.ProposalCancelled
		out = p

		if t, err := tx.Tasks.FindByID(ctx, p.TaskID); err == nil {
			queue.add(t.ClientID, realtime.Event{
				Type:       realtime.EventProposalCancelled,
				TaskID:     t.ID,
				ProposalID: ptr(p.ID),
				Message:    "A proposal was withdrawn",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)
	return out, nil
}

// ListTaskProposals is visible to the task owner only.
func (c *Controller) ListTaskProposals(ctx context.Context, caller *models.User, taskID uuid.UUID) ([]ProposalView, error) {
	t, err := c.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ClientID != caller.ID {
		return nil, apperr.Forbidden("Only the task owner can view its proposals")
	}

	proposals, err := c.store.Proposals.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	out := make([]ProposalView, len(proposals))
	for i := range proposals {
		out[i] = ProposalView{Proposal: &proposals[i], Freelancer: proposals[i].Freelancer.Public()}
	}
	return out, nil
}

func (c *Controller) ListMyProposals(ctx context.Context, caller *models.User) ([]MyProposalView, error) {
	proposals, err := c.store.Proposals.ListByFreelancer(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	out := make([]MyProposalView, len(proposals))
	for i := range proposals {
		out[i] = MyProposalView{Proposal: &proposals[i], Task: proposals[i].Task}
	}
	return out, nil
}
