package lifecycle

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
)

type ReviewInput struct {
	TaskID  string `json:"taskId" validate:"required,uuid"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// CreateReview records the caller's review of the other participant of a
// completed task and refreshes the reviewee's rating, which is the
// arithmetic mean of every score they received.
func (c *Controller) CreateReview(ctx context.Context, caller *models.User, in ReviewInput) (*models.Review, error) {
	in.TaskID = strings.TrimSpace(in.TaskID)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}
	taskID := uuid.MustParse(in.TaskID)

	var (
		rv    *models.Review
		queue outbox
	)
	err := c.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if t.Status != models.TaskCompleted {
			return apperr.Conflict("Reviews can only be left on completed tasks")
		}

		accepted, err := tx.Proposals.FindAccepted(ctx, taskID)
		if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}

		var reviewee uuid.UUID
		switch {
		case caller.ID == t.ClientID && accepted != nil:
			reviewee = accepted.FreelancerID
		case accepted != nil && caller.ID == accepted.FreelancerID:
			reviewee = t.ClientID
		default:
			return apperr.Forbidden("Only participants of this task can review it")
		}

		exists, err := tx.Reviews.Exists(ctx, taskID, caller.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("You already reviewed this task")
		}

		rv = &models.Review{
			TaskID:     taskID,
			ReviewerID: caller.ID,
			RevieweeID: reviewee,
			Score:      in.Score,
			Comment:    in.Comment,
		}
		if err := tx.Reviews.Create(ctx, rv); err != nil {
			return err
		}
		if err := tx.Users.RefreshRating(ctx, reviewee); err != nil {
			return err
		}

		queue.add(reviewee, realtime.Event{
			Type:     realtime.EventReviewCreated,
			TaskID:   taskID,
			ReviewID: ptr(rv.ID),
			Message:  "You received a new review",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.flush(ctx, queue)
	logger.Info("review created", "review_id", rv.ID, "task_id", taskID, "reviewee_id", rv.RevieweeID)
	return rv, nil
}

func (c *Controller) ListUserReviews(ctx context.Context, userID uuid.UUID) ([]ReviewView, error) {
	if _, err := c.store.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	reviews, err := c.store.Reviews.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewView, len(reviews))
	for i := range reviews {
		out[i] = ReviewView{Review: &reviews[i], Reviewer: reviews[i].Reviewer.Public()}
	}
	return out, nil
}
