package service

import (
	"context"

	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
)

// OrganisationService manages organisations and their membership links.
type OrganisationService struct {
	organisations OrganisationStore
	memberships   MembershipStore
	users         UserStore
}

func NewOrganisationService(organisations OrganisationStore, memberships MembershipStore, users UserStore) *OrganisationService {
	return &OrganisationService{
		organisations: organisations,
		memberships:   memberships,
		users:         users,
	}
}

// Create inserts the organisation with the creator as owner.
func (s *OrganisationService) Create(ctx context.Context, orga *model.Organisation, ownerUUID uuid.UUID) error {
	return s.organisations.CreateWithOwner(ctx, orga, ownerUUID)
}

// Get returns the organisation by identifier.
func (s *OrganisationService) Get(ctx context.Context, orgaUUID uuid.UUID) (*model.Organisation, error) {
	return s.organisations.GetByUUID(ctx, orgaUUID)
}

// Update merges the permitted fields onto the organisation.
func (s *OrganisationService) Update(ctx context.Context, orgaUUID uuid.UUID, update model.OrganisationUpdate) (*model.Organisation, error) {
	orga, err := s.organisations.GetByUUID(ctx, orgaUUID)
	if err != nil {
		return nil, err
	}

	orga.Apply(update)
	if err := s.organisations.Update(ctx, orga); err != nil {
		return nil, err
	}
	return orga, nil
}

// Delete removes the organisation. The store rejects deletion while the
// organisation still owns business records.
func (s *OrganisationService) Delete(ctx context.Context, orgaUUID uuid.UUID) error {
	return s.organisations.Delete(ctx, orgaUUID)
}

// ListForUser returns the user's memberships with organisations attached.
func (s *OrganisationService) ListForUser(ctx context.Context, userUUID uuid.UUID) ([]model.Membership, error) {
	return s.memberships.MembershipsOf(ctx, userUUID)
}

// ListMembers returns all role links of the organisation.
func (s *OrganisationService) ListMembers(ctx context.Context, orgaUUID uuid.UUID) ([]model.Membership, error) {
	return s.memberships.ListMembers(ctx, orgaUUID)
}

// AddMember grants a user, looked up by email, a role in the organisation.
// An existing link is updated instead, subject to the last-owner guard.
func (s *OrganisationService) AddMember(ctx context.Context, orgaUUID uuid.UUID, email string, role authz.Role) (*model.Membership, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	membership := &model.Membership{
		UserUUID: user.UUID,
		OrgaUUID: orgaUUID,
		Role:     role,
	}
	if err := s.memberships.Upsert(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// RemoveMember deletes a role link, subject to the last-owner guard.
func (s *OrganisationService) RemoveMember(ctx context.Context, orgaUUID, userUUID uuid.UUID) error {
	return s.memberships.Remove(ctx, userUUID, orgaUUID)
}
