package store

import (
	"context"
	"errors"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore persists user records.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByEmail looks a user up by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindUserNotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load user", err)
	}
	return &user, nil
}

// GetByUUID looks a user up by identifier.
func (s *UserStore) GetByUUID(ctx context.Context, userUUID uuid.UUID) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("uuid = ?", userUUID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindUserNotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load user", err)
	}
	return &user, nil
}

// Create inserts a new user, rejecting duplicate emails.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return apperror.New(apperror.KindConflict, "email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.KindInternal, "failed to check existing user", err)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to create user", err)
	}
	return nil
}

// Update saves the full user record.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to update user", err)
	}
	return nil
}

// Delete removes a user. Users that still hold organisation memberships are
// not deletable; the links must be resolved first.
func (s *UserStore) Delete(ctx context.Context, userUUID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memberships int64
		if err := tx.Model(&model.Membership{}).
			Where("user_uuid = ?", userUUID).
			Count(&memberships).Error; err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to count memberships", err)
		}
		if memberships > 0 {
			return apperror.New(apperror.KindConflict, "user still belongs to organisations")
		}

		result := tx.Where("uuid = ?", userUUID).Delete(&model.User{})
		if result.Error != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to delete user", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.New(apperror.KindUserNotFound, "user not found")
		}
		return nil
	})
}
