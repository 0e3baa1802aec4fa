package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeClient     UserType = "client"
	UserTypeFreelancer UserType = "freelancer"
	UserTypeBoth       UserType = "both"
)

// Can reports whether the account may act in the given role. "both" acts
// as either.
func (t UserType) Can(role UserType) bool {
	return t == role || t == UserTypeBoth
}

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`

	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	FirstName string   `gorm:"type:varchar(80);not null" json:"firstName"`
	LastName  string   `gorm:"type:varchar(80);not null" json:"lastName"`
	Phone     string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	UserType  UserType `gorm:"type:varchar(20);not null;default:'both';index" json:"userType"`
	Country   string   `gorm:"type:varchar(2);not null" json:"country"`
	City      string   `gorm:"type:varchar(100)" json:"city,omitempty"`

	// mean of received review scores
	Rating        float64 `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	ReviewCount   int     `gorm:"not null;default:0" json:"reviewCount"`
	WalletBalance float64 `gorm:"type:decimal(12,2);not null;default:0" json:"walletBalance"`
	IsActive      bool    `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// PublicUser is the projection of a user that other accounts may see.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Rating    float64   `json:"rating"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Rating:    u.Rating,
		City:      u.City,
		Country:   u.Country,
	}
}
