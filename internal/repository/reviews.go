package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *models.Review) error
	Exists(ctx context.Context, taskID, reviewerID uuid.UUID) (bool, error)
	// ListByReviewee returns reviews a user received, newest first, with the
	// reviewer loaded.
	ListByReviewee(ctx context.Context, userID uuid.UUID) ([]models.Review, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) Create(ctx context.Context, rv *models.Review) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("You already reviewed this task")
	}
	return err
}

func (r *reviewRepo) Exists(ctx context.Context, taskID, reviewerID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("task_id = ? AND reviewer_id = ?", taskID, reviewerID).
		Count(&n).Error
	return n > 0, err
}

func (r *reviewRepo) ListByReviewee(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	out := []models.Review{}
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("reviewee_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *reviewRepo) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.Review{}).Error
}
