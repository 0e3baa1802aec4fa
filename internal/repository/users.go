package repository

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, firstName, lastName string) error
	// RefreshRating recomputes rating and review count from received reviews.
	RefreshRating(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("A user with this email already exists")
	}
	return err
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, "User not found")
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapNotFound(err, "User not found")
	}
	return &u, nil
}

func (r *userRepo) UpdateName(ctx context.Context, id uuid.UUID, firstName, lastName string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName}).Error
}

func (r *userRepo) RefreshRating(ctx context.Context, id uuid.UUID) error {
	var agg struct {
		Avg float64
		Cnt int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(CAST(AVG(score) AS FLOAT), 0) AS avg, COUNT(*) AS cnt").
		Where("reviewee_id = ?", id).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":       math.Round(agg.Avg*100) / 100,
			"review_count": agg.Cnt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
