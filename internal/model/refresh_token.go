package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted side of a refresh token. The signed string is
// stored verbatim so validity checks can match on (user_uuid, token); the row
// is what makes early revocation enforceable, since a signature check alone
// cannot express "this token was invalidated".
type RefreshToken struct {
	JTI       uuid.UUID `json:"jti" gorm:"type:uuid;primaryKey"`
	UserUUID  uuid.UUID `json:"user_uuid" gorm:"type:uuid;primaryKey"`
	Token     string    `json:"-" gorm:"type:text;not null"`
	Revoked   bool      `json:"revoked" gorm:"default:false"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired checks if the token is expired
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsLive checks if the token is still usable (not expired and not revoked)
func (t *RefreshToken) IsLive() bool {
	return !t.Revoked && !t.IsExpired()
}
