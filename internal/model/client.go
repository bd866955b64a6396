package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a buyer record owned by one organisation. It is the
// representative organisation-scoped entity: its handlers show the gate
// pattern every other business entity (lots, sales, sellers, invoices,
// inventories) follows.
type Client struct {
	UUID       uuid.UUID      `json:"uuid" gorm:"type:uuid;primaryKey"`
	OrgaUUID   uuid.UUID      `json:"orga_uuid" gorm:"type:uuid;index;not null"`
	FirstName  string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName   string         `json:"last_name" gorm:"type:varchar(100)"`
	Email      string         `json:"email,omitempty" gorm:"type:varchar(100)"`
	Phone      string         `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Address    string         `json:"address,omitempty" gorm:"type:varchar(255)"`
	PostalCode string         `json:"postal_code,omitempty" gorm:"type:varchar(20)"`
	City       string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a fresh UUID when none was provided
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// ClientUpdate is a partial update. UUID and organisation ownership are
// immutable: a client can never move across tenants.
type ClientUpdate struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	City       *string `json:"city,omitempty"`
}

// Apply merges the fields present in the update onto the client.
func (c *Client) Apply(update ClientUpdate) {
	if update.FirstName != nil {
		c.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		c.LastName = *update.LastName
	}
	if update.Email != nil {
		c.Email = *update.Email
	}
	if update.Phone != nil {
		c.Phone = *update.Phone
	}
	if update.Address != nil {
		c.Address = *update.Address
	}
	if update.PostalCode != nil {
		c.PostalCode = *update.PostalCode
	}
	if update.City != nil {
		c.City = *update.City
	}
}
