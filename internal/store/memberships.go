package store

import (
	"context"
	"errors"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipStore persists user-organisation role links.
type MembershipStore struct {
	db *gorm.DB
}

func NewMembershipStore(db *gorm.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

// OrganisationsOf returns the identifiers of every organisation the user
// belongs to.
func (s *MembershipStore) OrganisationsOf(ctx context.Context, userUUID uuid.UUID) ([]uuid.UUID, error) {
	var orgaUUIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_uuid = ?", userUUID).
		Pluck("orga_uuid", &orgaUUIDs).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load organisations", err)
	}
	return orgaUUIDs, nil
}

// MembershipsOf returns all role links of the user.
func (s *MembershipStore) MembershipsOf(ctx context.Context, userUUID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := s.db.WithContext(ctx).Preload("Organisation").
		Where("user_uuid = ?", userUUID).
		Find(&memberships).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load memberships", err)
	}
	return memberships, nil
}

// RoleFor returns the user's role within one organisation.
func (s *MembershipStore) RoleFor(ctx context.Context, userUUID, orgaUUID uuid.UUID) (authz.Role, error) {
	var membership model.Membership
	err := s.db.WithContext(ctx).
		Where("user_uuid = ? AND orga_uuid = ?", userUUID, orgaUUID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.New(apperror.KindNotFound, "membership not found")
		}
		return "", apperror.Wrap(apperror.KindInternal, "failed to load membership", err)
	}
	return membership.Role, nil
}

// ListMembers returns every role link of the organisation with the user
// record preloaded.
func (s *MembershipStore) ListMembers(ctx context.Context, orgaUUID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := s.db.WithContext(ctx).Preload("User").
		Where("orga_uuid = ?", orgaUUID).
		Find(&memberships).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to list members", err)
	}
	return memberships, nil
}

// Upsert creates or updates a role link. Demoting the organisation's last
// owner is rejected inside the same transaction as the write so the check and
// the mutation cannot interleave with another writer.
func (s *MembershipStore) Upsert(ctx context.Context, membership *model.Membership) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Membership
		err := tx.Where("user_uuid = ? AND orga_uuid = ?", membership.UserUUID, membership.OrgaUUID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Role == authz.RoleOwner && membership.Role != authz.RoleOwner {
				owners, err := countOwners(tx, membership.OrgaUUID)
				if err != nil {
					return err
				}
				if owners <= 1 {
					return apperror.New(apperror.KindConflict, "cannot demote the last owner of the organisation")
				}
			}
			existing.Role = membership.Role
			if err := tx.Save(&existing).Error; err != nil {
				return apperror.Wrap(apperror.KindInternal, "failed to update membership", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(membership).Error; err != nil {
				return apperror.Wrap(apperror.KindInternal, "failed to create membership", err)
			}
			return nil
		default:
			return apperror.Wrap(apperror.KindInternal, "failed to load membership", err)
		}
	})
}

// Remove deletes a role link. Removing the organisation's last owner link is
// rejected and leaves the membership unchanged.
func (s *MembershipStore) Remove(ctx context.Context, userUUID, orgaUUID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership model.Membership
		err := tx.Where("user_uuid = ? AND orga_uuid = ?", userUUID, orgaUUID).
			First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.KindNotFound, "membership not found")
			}
			return apperror.Wrap(apperror.KindInternal, "failed to load membership", err)
		}

		if membership.Role == authz.RoleOwner {
			owners, err := countOwners(tx, orgaUUID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return apperror.New(apperror.KindConflict, "cannot remove the last owner of the organisation")
			}
		}

		err = tx.Where("user_uuid = ? AND orga_uuid = ?", userUUID, orgaUUID).
			Delete(&model.Membership{}).Error
		if err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to remove membership", err)
		}
		return nil
	})
}

func countOwners(tx *gorm.DB, orgaUUID uuid.UUID) (int64, error) {
	var owners int64
	err := tx.Model(&model.Membership{}).
		Where("orga_uuid = ? AND role = ?", orgaUUID, authz.RoleOwner).
		Count(&owners).Error
	if err != nil {
		return 0, apperror.Wrap(apperror.KindInternal, "failed to count owners", err)
	}
	return owners, nil
}
