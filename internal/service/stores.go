package service

import (
	"context"

	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
)

// Store contracts consumed by the services. The gorm implementations live in
// internal/store; tests substitute in-memory fakes.

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUUID(ctx context.Context, userUUID uuid.UUID) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userUUID uuid.UUID) error
}

type MembershipStore interface {
	OrganisationsOf(ctx context.Context, userUUID uuid.UUID) ([]uuid.UUID, error)
	MembershipsOf(ctx context.Context, userUUID uuid.UUID) ([]model.Membership, error)
	RoleFor(ctx context.Context, userUUID, orgaUUID uuid.UUID) (authz.Role, error)
	ListMembers(ctx context.Context, orgaUUID uuid.UUID) ([]model.Membership, error)
	Upsert(ctx context.Context, membership *model.Membership) error
	Remove(ctx context.Context, userUUID, orgaUUID uuid.UUID) error
}

type RefreshTokenStore interface {
	Insert(ctx context.Context, token *model.RefreshToken) error
	IsLive(ctx context.Context, userUUID uuid.UUID, token string) (bool, error)
	Revoke(ctx context.Context, userUUID uuid.UUID, token string) error
	SweepExpired(ctx context.Context) (int64, error)
}

type OrganisationStore interface {
	CreateWithOwner(ctx context.Context, orga *model.Organisation, ownerUUID uuid.UUID) error
	GetByUUID(ctx context.Context, orgaUUID uuid.UUID) (*model.Organisation, error)
	Update(ctx context.Context, orga *model.Organisation) error
	Delete(ctx context.Context, orgaUUID uuid.UUID) error
}
