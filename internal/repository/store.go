// Package repository holds one repository per table. Relations are plain
// foreign-key columns loaded through explicit queries.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
)

type Store struct {
	db *gorm.DB

	Users     UserRepository
	Tasks     TaskRepository
	Proposals ProposalRepository
	Reviews   ReviewRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Users:     &userRepo{db: db},
		Tasks:     &taskRepo{db: db},
		Proposals: &proposalRepo{db: db},
		Reviews:   &reviewRepo{db: db},
	}
}

// DB exposes the handle the store runs on (the transaction inside
// Transaction callbacks).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func mapNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}
