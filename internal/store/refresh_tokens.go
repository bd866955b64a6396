package store

import (
	"context"
	"errors"
	"time"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshTokenStore persists refresh-token rows. A token is live while its
// row exists with revoked = false and a future expiry; everything else counts
// as invalid regardless of what the signed string says.
type RefreshTokenStore struct {
	db *gorm.DB
}

func NewRefreshTokenStore(db *gorm.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

// Insert stores the row backing a freshly issued refresh token.
func (s *RefreshTokenStore) Insert(ctx context.Context, token *model.RefreshToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to store refresh token", err)
	}
	return nil
}

// IsLive reports whether a live row matches (user_uuid, token): not revoked
// and not past the persisted expiry.
func (s *RefreshTokenStore) IsLive(ctx context.Context, userUUID uuid.UUID, token string) (bool, error) {
	var row model.RefreshToken
	err := s.db.WithContext(ctx).
		Where("user_uuid = ? AND token = ? AND revoked = ? AND expires_at > ?",
			userUUID, token, false, time.Now()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperror.Wrap(apperror.KindInternal, "failed to check refresh token", err)
	}
	return true, nil
}

// Revoke flags the matching row as revoked. Revoking an already-revoked or
// unknown token is a silent no-op so logout stays robust against retries.
func (s *RefreshTokenStore) Revoke(ctx context.Context, userUUID uuid.UUID, token string) error {
	result := s.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_uuid = ? AND token = ?", userUUID, token).
		Update("revoked", true)
	if result.Error != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to revoke refresh token", result.Error)
	}
	return nil
}

// SweepExpired deletes every row whose expiry is in the past, revoked or not,
// and returns the number of rows removed.
func (s *RefreshTokenStore) SweepExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		return 0, apperror.Wrap(apperror.KindInternal, "failed to sweep refresh tokens", result.Error)
	}
	return result.RowsAffected, nil
}
