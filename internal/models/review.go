package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_task_reviewer" json:"taskId"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_task_reviewer" json:"reviewerId"`
	RevieweeID uuid.UUID `gorm:"type:uuid;not null;index" json:"revieweeId"`

	Score   int    `gorm:"not null" json:"score"` // 1-5
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Task     *Task `gorm:"foreignKey:TaskID" json:"-"`
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"-"`
	Reviewee *User `gorm:"foreignKey:RevieweeID" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
