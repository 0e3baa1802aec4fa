package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletTrxType string

const (
	WalletTrxCredit WalletTrxType = "credit"
	WalletTrxDebit  WalletTrxType = "debit"
	WalletTrxRefund WalletTrxType = "refund"
)

type WalletTransaction struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"userId"`
	Amount      float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type        WalletTrxType `gorm:"type:varchar(20);not null" json:"type"`
	Description string        `gorm:"type:text" json:"description"`
	// task the movement belongs to
	ReferenceID *uuid.UUID `gorm:"type:uuid;index" json:"referenceId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (w *WalletTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
