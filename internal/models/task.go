package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskDraft      TaskStatus = "draft"
	TaskOpen       TaskStatus = "open"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskDraft:      {TaskOpen, TaskCancelled},
	TaskOpen:       {TaskAssigned, TaskCancelled},
	TaskAssigned:   {TaskInProgress, TaskCompleted, TaskCancelled},
	TaskInProgress: {TaskCompleted, TaskCancelled},
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskDraft, TaskOpen, TaskAssigned, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, to := range taskTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Sources lists every status that may move to s.
func (s TaskStatus) Sources() []TaskStatus {
	var out []TaskStatus
	for from, tos := range taskTransitions {
		for _, to := range tos {
			if to == s {
				out = append(out, from)
			}
		}
	}
	return out
}

type Currency string

const (
	CurrencyMDL Currency = "MDL"
	CurrencyRON Currency = "RON"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Countries tasks may be posted in.
var Countries = []string{"RO", "MD"}

type Task struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`

	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	Country  string `gorm:"type:varchar(2);not null;index" json:"country"`
	City     string `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Address  string `gorm:"type:text" json:"address,omitempty"`
	IsRemote bool   `gorm:"not null;default:false" json:"isRemote"`

	BudgetMin *float64 `gorm:"type:decimal(10,2)" json:"budgetMin,omitempty"`
	BudgetMax *float64 `gorm:"type:decimal(10,2)" json:"budgetMax,omitempty"`
	Currency  Currency `gorm:"type:varchar(3);not null;default:'MDL'" json:"currency"`

	// ["plumbing", "electrical", ...]
	Skills datatypes.JSON `json:"skills,omitempty"`

	Status   TaskStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Deadline *time.Time `json:"deadline,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Client *User `gorm:"foreignKey:ClientID" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
