package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

type TaskFilter struct {
	Country string
	City    string
	Status  models.TaskStatus
	Page    int // 1-indexed
	Limit   int
}

type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	// FindWithClient loads the task together with its owner.
	FindWithClient(ctx context.Context, id uuid.UUID) (*models.Task, error)
	// Lock reads the task with a row lock held until the transaction ends.
	Lock(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, f TaskFilter) ([]models.Task, int64, error)
	Save(ctx context.Context, t *models.Task) error
	// TransitionStatus moves the task to `to` only while its status is one
	// of `from`. It reports whether the row changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []models.TaskStatus, to models.TaskStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Cities(ctx context.Context, country string) ([]string, error)
}

type taskRepo struct {
	db *gorm.DB
}

func (r *taskRepo) Create(ctx context.Context, t *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
}

func (r *taskRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "Task not found")
	}
	return &t, nil
}

func (r *taskRepo) FindWithClient(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	if err := r.db.WithContext(ctx).Preload("Client").First(&t, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "Task not found")
	}
	return &t, nil
}

func (r *taskRepo) Lock(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err, "Task not found")
	}
	return &t, nil
}

func (r *taskRepo) List(ctx context.Context, f TaskFilter) ([]models.Task, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", f.Status)
		if f.Country != "" {
			db = db.Where("country = ?", f.Country)
		}
		if f.City != "" {
			db = db.Where("city = ?", f.City)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := make([]models.Task, 0, f.Limit)
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Client").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *taskRepo) Save(ctx context.Context, t *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

func (r *taskRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from []models.TaskStatus, to models.TaskStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Task not found")
	}
	return nil
}

func (r *taskRepo) Cities(ctx context.Context, country string) ([]string, error) {
	cities := []string{}
	q := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("status = ? AND city <> ''", models.TaskOpen)
	if country != "" {
		q = q.Where("country = ?", country)
	}
	err := q.Distinct("city").Order("city").Pluck("city", &cities).Error
	return cities, err
}
