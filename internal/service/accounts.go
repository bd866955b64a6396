package service

import (
	"context"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload of a new registration. Registration creates
// the user, their auction house and the owner membership in one go.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
}

// AccountService manages user records: registration, profile updates and
// password changes.
type AccountService struct {
	users         UserStore
	organisations OrganisationStore
	bcryptCost    int
}

func NewAccountService(users UserStore, organisations OrganisationStore, bcryptCost int) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		users:         users,
		organisations: organisations,
		bcryptCost:    bcryptCost,
	}
}

// Register creates the user and their organisation, with the user as the
// organisation's owner.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, *model.Organisation, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.KindInternal, "error hashing password", err)
	}

	user := &model.User{
		Email:     input.Email,
		Password:  string(hash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	orga := &model.Organisation{CompanyName: input.CompanyName}
	if err := s.organisations.CreateWithOwner(ctx, orga, user.UUID); err != nil {
		return nil, nil, err
	}

	return user, orga, nil
}

// Get returns the user by identifier.
func (s *AccountService) Get(ctx context.Context, userUUID uuid.UUID) (*model.User, error) {
	return s.users.GetByUUID(ctx, userUUID)
}

// UpdateProfile merges the permitted profile fields onto the user.
func (s *AccountService) UpdateProfile(ctx context.Context, userUUID uuid.UUID, update model.UserUpdate) (*model.User, error) {
	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	user.Apply(update)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user account. Accounts still holding organisation
// memberships are not deletable; the memberships must be resolved first.
func (s *AccountService) Delete(ctx context.Context, userUUID uuid.UUID) error {
	return s.users.Delete(ctx, userUUID)
}

// ChangePassword replaces the password hash after verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userUUID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return apperror.New(apperror.KindAuthentication, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "error hashing password", err)
	}

	user.Password = string(hash)
	return s.users.Update(ctx, user)
}
