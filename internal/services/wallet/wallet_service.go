package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// CreditFreelancer adds the payout to the freelancer's balance and writes a
// ledger entry. It must run on the caller's transaction.
func (s *WalletService) CreditFreelancer(tx *gorm.DB, userID uuid.UUID, amount float64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return apperr.Validation("amount to credit must be greater than zero")
	}

	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Internal(fmt.Errorf("wallet owner %s not found", userID))
	}

	ledger := models.WalletTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.WalletTrxCredit,
		Description: description,
		ReferenceID: &referenceID,
	}
	return tx.Create(&ledger).Error
}

// ListTransactions returns the user's ledger, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	out := []models.WalletTransaction{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
