package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "pending"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalCancelled ProposalStatus = "cancelled"
)

type Proposal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID       uuid.UUID `gorm:"type:uuid;not null;index" json:"taskId"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index" json:"freelancerId"`

	Message       string  `gorm:"type:text;not null" json:"message"`
	Price         float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	EstimatedDays *int    `json:"estimatedDays,omitempty"`

	Status ProposalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Task       *Task `gorm:"foreignKey:TaskID" json:"-"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"-"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
