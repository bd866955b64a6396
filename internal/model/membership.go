package model

import (
	"time"

	"auction-backoffice/internal/authz"

	"github.com/google/uuid"
)

// Membership links a user to an organisation with a role. A user may hold
// memberships in several organisations, each with an independent role. Every
// organisation keeps at least one owner link at all times.
type Membership struct {
	UserUUID  uuid.UUID  `json:"user_uuid" gorm:"type:uuid;primaryKey"`
	OrgaUUID  uuid.UUID  `json:"orga_uuid" gorm:"type:uuid;primaryKey"`
	Role      authz.Role `json:"role" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	User         User         `json:"user,omitempty" gorm:"foreignKey:UserUUID"`
	Organisation Organisation `json:"organisation,omitempty" gorm:"foreignKey:OrgaUUID"`
}
