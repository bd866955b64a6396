package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the user model stored in the database
type User struct {
	UUID      uuid.UUID      `json:"uuid" gorm:"type:uuid;primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Phone     string         `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Address   string         `json:"address,omitempty" gorm:"type:varchar(255)"`
	City      string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	Country   string         `json:"country,omitempty" gorm:"type:varchar(100)"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a fresh UUID when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}

// UserUpdate is a partial profile update. UUID, email and password are
// deliberately absent: they are immutable here (password changes go through
// their own flow).
type UserUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
}

// Apply merges the fields present in the update onto the user.
func (u *User) Apply(update UserUpdate) {
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.City != nil {
		u.City = *update.City
	}
	if update.Country != nil {
		u.Country = *update.Country
	}
}
