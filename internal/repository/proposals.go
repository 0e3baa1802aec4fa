package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

type ProposalRepository interface {
	Create(ctx context.Context, p *models.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	// ListByTask returns the task's proposals, newest first, with the
	// freelancer loaded.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.Proposal, error)
	// ListByFreelancer returns the freelancer's proposals with their task loaded.
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	ListByTaskAndStatus(ctx context.Context, taskID uuid.UUID, status models.ProposalStatus) ([]models.Proposal, error)
	FindAccepted(ctx context.Context, taskID uuid.UUID) (*models.Proposal, error)
	// HasActive reports whether the freelancer already has a pending or
	// accepted proposal on the task.
	HasActive(ctx context.Context, taskID, freelancerID uuid.UUID) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.ProposalStatus) (bool, error)
	// RejectPending rejects every pending proposal of the task except one.
	RejectPending(ctx context.Context, taskID, except uuid.UUID) (int64, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type proposalRepo struct {
	db *gorm.DB
}

func (r *proposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *proposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "Proposal not found")
	}
	return &p, nil
}

func (r *proposalRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.Proposal, error) {
	out := []models.Proposal{}
	err := r.db.WithContext(ctx).
		Preload("Freelancer").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *proposalRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	out := []models.Proposal{}
	err := r.db.WithContext(ctx).
		Preload("Task").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *proposalRepo) ListByTaskAndStatus(ctx context.Context, taskID uuid.UUID, status models.ProposalStatus) ([]models.Proposal, error) {
	out := []models.Proposal{}
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND status = ?", taskID, status).
		Find(&out).Error
	return out, err
}

func (r *proposalRepo) FindAccepted(ctx context.Context, taskID uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND status = ?", taskID, models.ProposalAccepted).
		First(&p).Error
	if err != nil {
		return nil, mapNotFound(err, "Accepted proposal not found")
	}
	return &p, nil
}

func (r *proposalRepo) HasActive(ctx context.Context, taskID, freelancerID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("task_id = ? AND freelancer_id = ? AND status IN ?", taskID, freelancerID,
			[]models.ProposalStatus{models.ProposalPending, models.ProposalAccepted}).
		Count(&n).Error
	return n > 0, err
}

func (r *proposalRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.ProposalStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *proposalRepo) RejectPending(ctx context.Context, taskID, except uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("task_id = ? AND id <> ? AND status = ?", taskID, except, models.ProposalPending).
		Update("status", models.ProposalRejected)
	return res.RowsAffected, res.Error
}

func (r *proposalRepo) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.Proposal{}).Error
}
