package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organisation is the tenant boundary. Every business entity belongs to
// exactly one organisation.
type Organisation struct {
	UUID               uuid.UUID      `json:"uuid" gorm:"type:uuid;primaryKey"`
	CompanyName        string         `json:"company_name" gorm:"type:varchar(150);not null"`
	TradeName          string         `json:"trade_name,omitempty" gorm:"type:varchar(150)"`
	SirenNumber        string         `json:"siren_number,omitempty" gorm:"type:varchar(20)"`
	ApeCode            string         `json:"ape_code,omitempty" gorm:"type:varchar(10)"`
	Website            string         `json:"website,omitempty" gorm:"type:varchar(255)"`
	Address            string         `json:"address,omitempty" gorm:"type:varchar(255)"`
	PostalCode         string         `json:"postal_code,omitempty" gorm:"type:varchar(20)"`
	City               string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	StandardSellerFees int            `json:"standard_seller_fees" gorm:"default:0"`
	StandardBuyerFees  int            `json:"standard_buyer_fees" gorm:"default:0"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a fresh UUID when none was provided
func (o *Organisation) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

// OrganisationUpdate is a partial update of the organisation profile. The
// UUID is immutable.
type OrganisationUpdate struct {
	CompanyName        *string `json:"company_name,omitempty"`
	TradeName          *string `json:"trade_name,omitempty"`
	SirenNumber        *string `json:"siren_number,omitempty"`
	ApeCode            *string `json:"ape_code,omitempty"`
	Website            *string `json:"website,omitempty"`
	Address            *string `json:"address,omitempty"`
	PostalCode         *string `json:"postal_code,omitempty"`
	City               *string `json:"city,omitempty"`
	StandardSellerFees *int    `json:"standard_seller_fees,omitempty"`
	StandardBuyerFees  *int    `json:"standard_buyer_fees,omitempty"`
}

// Apply merges the fields present in the update onto the organisation.
func (o *Organisation) Apply(update OrganisationUpdate) {
	if update.CompanyName != nil {
		o.CompanyName = *update.CompanyName
	}
	if update.TradeName != nil {
		o.TradeName = *update.TradeName
	}
	if update.SirenNumber != nil {
		o.SirenNumber = *update.SirenNumber
	}
	if update.ApeCode != nil {
		o.ApeCode = *update.ApeCode
	}
	if update.Website != nil {
		o.Website = *update.Website
	}
	if update.Address != nil {
		o.Address = *update.Address
	}
	if update.PostalCode != nil {
		o.PostalCode = *update.PostalCode
	}
	if update.City != nil {
		o.City = *update.City
	}
	if update.StandardSellerFees != nil {
		o.StandardSellerFees = *update.StandardSellerFees
	}
	if update.StandardBuyerFees != nil {
		o.StandardBuyerFees = *update.StandardBuyerFees
	}
}
