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

// OrganisationStore persists organisations.
type OrganisationStore struct {
	db *gorm.DB
}

func NewOrganisationStore(db *gorm.DB) *OrganisationStore {
	return &OrganisationStore{db: db}
}

// CreateWithOwner inserts the organisation and the creator's owner link in one
// transaction. Every organisation starts with exactly one owner.
func (s *OrganisationStore) CreateWithOwner(ctx context.Context, orga *model.Organisation, ownerUUID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(orga).Error; err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to create organisation", err)
		}

		membership := model.Membership{
			UserUUID: ownerUUID,
			OrgaUUID: orga.UUID,
			Role:     authz.RoleOwner,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to create owner membership", err)
		}
		return nil
	})
}

// GetByUUID looks an organisation up by identifier.
func (s *OrganisationStore) GetByUUID(ctx context.Context, orgaUUID uuid.UUID) (*model.Organisation, error) {
	var orga model.Organisation
	err := s.db.WithContext(ctx).Where("uuid = ?", orgaUUID).First(&orga).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "organisation not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load organisation", err)
	}
	return &orga, nil
}

// Update saves the full organisation record.
func (s *OrganisationStore) Update(ctx context.Context, orga *model.Organisation) error {
	if err := s.db.WithContext(ctx).Save(orga).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to update organisation", err)
	}
	return nil
}

// Delete removes an organisation and its membership links. Organisations that
// still own business entities are not deletable.
func (s *OrganisationStore) Delete(ctx context.Context, orgaUUID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clients int64
		if err := tx.Model(&model.Client{}).
			Where("orga_uuid = ?", orgaUUID).
			Count(&clients).Error; err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to count clients", err)
		}
		if clients > 0 {
			return apperror.New(apperror.KindConflict, "organisation still owns business records")
		}

		if err := tx.Where("orga_uuid = ?", orgaUUID).Delete(&model.Membership{}).Error; err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to remove memberships", err)
		}

		result := tx.Where("uuid = ?", orgaUUID).Delete(&model.Organisation{})
		if result.Error != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to delete organisation", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.New(apperror.KindNotFound, "organisation not found")
		}
		return nil
	})
}
