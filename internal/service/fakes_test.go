package service

import (
	"context"
	"time"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
)

// In-memory store fakes. They reproduce the error kinds of the gorm stores
// but none of the transactional guards; those are covered by the store tests.

type fakeUserStore struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperror.New(apperror.KindUserNotFound, "user not found")
}

func (s *fakeUserStore) GetByUUID(_ context.Context, userUUID uuid.UUID) (*model.User, error) {
	user, ok := s.users[userUUID]
	if !ok {
		return nil, apperror.New(apperror.KindUserNotFound, "user not found")
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperror.New(apperror.KindConflict, "a user with this email already exists")
		}
	}
	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}
	copied := *user
	s.users[user.UUID] = &copied
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, user *model.User) error {
	if _, ok := s.users[user.UUID]; !ok {
		return apperror.New(apperror.KindUserNotFound, "user not found")
	}
	copied := *user
	s.users[user.UUID] = &copied
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, userUUID uuid.UUID) error {
	delete(s.users, userUUID)
	return nil
}

type fakeMembershipStore struct {
	memberships []model.Membership
}

func (s *fakeMembershipStore) OrganisationsOf(_ context.Context, userUUID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, m := range s.memberships {
		if m.UserUUID == userUUID {
			out = append(out, m.OrgaUUID)
		}
	}
	return out, nil
}

func (s *fakeMembershipStore) MembershipsOf(_ context.Context, userUUID uuid.UUID) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.memberships {
		if m.UserUUID == userUUID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMembershipStore) RoleFor(_ context.Context, userUUID, orgaUUID uuid.UUID) (authz.Role, error) {
	for _, m := range s.memberships {
		if m.UserUUID == userUUID && m.OrgaUUID == orgaUUID {
			return m.Role, nil
		}
	}
	return "", apperror.New(apperror.KindNotFound, "membership not found")
}

func (s *fakeMembershipStore) ListMembers(_ context.Context, orgaUUID uuid.UUID) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.memberships {
		if m.OrgaUUID == orgaUUID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMembershipStore) Upsert(_ context.Context, membership *model.Membership) error {
	for i, m := range s.memberships {
		if m.UserUUID == membership.UserUUID && m.OrgaUUID == membership.OrgaUUID {
			s.memberships[i].Role = membership.Role
			return nil
		}
	}
	s.memberships = append(s.memberships, *membership)
	return nil
}

func (s *fakeMembershipStore) Remove(_ context.Context, userUUID, orgaUUID uuid.UUID) error {
	for i, m := range s.memberships {
		if m.UserUUID == userUUID && m.OrgaUUID == orgaUUID {
			s.memberships = append(s.memberships[:i], s.memberships[i+1:]...)
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "membership not found")
}

type fakeRefreshTokenStore struct {
	rows map[string]*model.RefreshToken
}

func newFakeRefreshTokenStore() *fakeRefreshTokenStore {
	return &fakeRefreshTokenStore{rows: make(map[string]*model.RefreshToken)}
}

func (s *fakeRefreshTokenStore) Insert(_ context.Context, token *model.RefreshToken) error {
	copied := *token
	s.rows[token.Token] = &copied
	return nil
}

func (s *fakeRefreshTokenStore) IsLive(_ context.Context, userUUID uuid.UUID, token string) (bool, error) {
	row, ok := s.rows[token]
	if !ok || row.UserUUID != userUUID {
		return false, nil
	}
	return !row.Revoked && row.ExpiresAt.After(time.Now()), nil
}

func (s *fakeRefreshTokenStore) Revoke(_ context.Context, userUUID uuid.UUID, token string) error {
	if row, ok := s.rows[token]; ok && row.UserUUID == userUUID {
		row.Revoked = true
	}
	return nil
}

func (s *fakeRefreshTokenStore) SweepExpired(_ context.Context) (int64, error) {
	var deleted int64
	for key, row := range s.rows {
		if !row.ExpiresAt.After(time.Now()) {
			delete(s.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeOrganisationStore struct {
	organisations map[uuid.UUID]*model.Organisation
	memberships   *fakeMembershipStore
}

func newFakeOrganisationStore(memberships *fakeMembershipStore) *fakeOrganisationStore {
	return &fakeOrganisationStore{
		organisations: make(map[uuid.UUID]*model.Organisation),
		memberships:   memberships,
	}
}

func (s *fakeOrganisationStore) CreateWithOwner(ctx context.Context, orga *model.Organisation, ownerUUID uuid.UUID) error {
	if orga.UUID == uuid.Nil {
		orga.UUID = uuid.New()
	}
	copied := *orga
	s.organisations[orga.UUID] = &copied
	if s.memberships != nil {
		return s.memberships.Upsert(ctx, &model.Membership{
			UserUUID: ownerUUID,
			OrgaUUID: orga.UUID,
			Role:     authz.RoleOwner,
		})
	}
	return nil
}

func (s *fakeOrganisationStore) GetByUUID(_ context.Context, orgaUUID uuid.UUID) (*model.Organisation, error) {
	orga, ok := s.organisations[orgaUUID]
	if !ok {
		return nil, apperror.New(apperror.KindNotFound, "organisation not found")
	}
	copied := *orga
	return &copied, nil
}

func (s *fakeOrganisationStore) Update(_ context.Context, orga *model.Organisation) error {
	if _, ok := s.organisations[orga.UUID]; !ok {
		return apperror.New(apperror.KindNotFound, "organisation not found")
	}
	copied := *orga
	s.organisations[orga.UUID] = &copied
	return nil
}

func (s *fakeOrganisationStore) Delete(_ context.Context, orgaUUID uuid.UUID) error {
	delete(s.organisations, orgaUUID)
	return nil
}
