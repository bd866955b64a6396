package store

import (
	"context"
	"errors"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientStore persists buyer records. Every query is keyed by organisation so
// a record can never be reached from another tenant, even with a guessed UUID.
type ClientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db}
}

func (s *ClientStore) Create(ctx context.Context, client *model.Client) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to create client", err)
	}
	return nil
}

func (s *ClientStore) GetByUUID(ctx context.Context, orgaUUID, clientUUID uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := s.db.WithContext(ctx).
		Where("uuid = ? AND orga_uuid = ?", clientUUID, orgaUUID).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "client not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load client", err)
	}
	return &client, nil
}

func (s *ClientStore) Update(ctx context.Context, client *model.Client) error {
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to update client", err)
	}
	return nil
}

func (s *ClientStore) Delete(ctx context.Context, orgaUUID, clientUUID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("uuid = ? AND orga_uuid = ?", clientUUID, orgaUUID).
		Delete(&model.Client{})
	if result.Error != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to delete client", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.KindNotFound, "client not found")
	}
	return nil
}

// ListByOrganisation pages through the organisation's clients.
func (s *ClientStore) ListByOrganisation(ctx context.Context, orgaUUID uuid.UUID, skip, limit int) ([]model.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var clients []model.Client
	err := s.db.WithContext(ctx).
		Where("orga_uuid = ?", orgaUUID).
		Order("created_at").
		Offset(skip).Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to list clients", err)
	}
	return clients, nil
}
