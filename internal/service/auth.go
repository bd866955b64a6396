package service

import (
	"context"
	"errors"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/model"
	"auction-backoffice/pkg/jwtutil"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService owns the token lifecycles: login, access-token validation,
// refresh, logout and the expired-row sweep.
type AuthService struct {
	codec         *jwtutil.Codec
	users         UserStore
	memberships   MembershipStore
	refreshTokens RefreshTokenStore
}

func NewAuthService(codec *jwtutil.Codec, users UserStore, memberships MembershipStore, refreshTokens RefreshTokenStore) *AuthService {
	return &AuthService{
		codec:         codec,
		users:         users,
		memberships:   memberships,
		refreshTokens: refreshTokens,
	}
}

// Login verifies credentials and mints an access + refresh token pair. The
// access token is scoped to every organisation the user belongs to, carrying
// the highest role held across those memberships.
func (s *AuthService) Login(ctx context.Context, email, password, deviceFingerprint string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindUserNotFound) {
			// Same answer as a bad password so login does not leak which
			// emails exist.
			return nil, apperror.New(apperror.KindAuthentication, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.New(apperror.KindAuthentication, "invalid credentials")
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.KindAuthentication, "invalid credentials")
	}

	orgaUUIDs, role, err := s.currentScope(ctx, user.UUID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.IssueAccessToken(user.UUID, orgaUUIDs, role.String(), deviceFingerprint)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "error creating access token", err)
	}

	refreshToken, err := s.issueRefreshToken(ctx, user.UUID, deviceFingerprint)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// ValidateAccessToken decodes the token and returns the typed caller claims.
func (s *AuthService) ValidateAccessToken(tokenString string) (*authz.Claims, error) {
	tokenClaims, err := s.codec.DecodeAccessToken(tokenString)
	if err != nil {
		return nil, mapCodecError(err)
	}
	return authz.ClaimsFromToken(tokenClaims)
}

// CurrentUser validates the token and resolves its subject against the store.
// A valid signature is not enough: a user deleted after issuance no longer
// authenticates.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.users.GetByUUID(ctx, claims.UserUUID)
}

// Refresh exchanges a live refresh token for a fresh access token. Both gates
// must agree: the token's own signature/expiry and the persisted row's
// revoked/expiry state. Memberships are re-read so scope changes since login
// take effect. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.DecodeRefreshToken(refreshToken)
	if err != nil {
		return "", mapCodecError(err)
	}

	userUUID, err := uuid.Parse(claims.UserUUID)
	if err != nil {
		return "", apperror.Wrap(apperror.KindTokenInvalid, "invalid token", err)
	}

	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		return "", err
	}

	live, err := s.refreshTokens.IsLive(ctx, user.UUID, refreshToken)
	if err != nil {
		return "", err
	}
	if !live {
		return "", apperror.New(apperror.KindTokenInvalid, "refresh token is invalid, expired, or has been revoked")
	}

	orgaUUIDs, role, err := s.currentScope(ctx, user.UUID)
	if err != nil {
		return "", err
	}

	accessToken, err := s.codec.IssueAccessToken(user.UUID, orgaUUIDs, role.String(), claims.DeviceFingerprint)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "error creating access token", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token. It never fails on a token that is
// already revoked, expired or unknown: double-logout must stay harmless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.DecodeRefreshToken(refreshToken)
	if err != nil {
		// An undecodable token has no row to revoke; treat as done.
		return nil
	}

	userUUID, err := uuid.Parse(claims.UserUUID)
	if err != nil {
		return nil
	}

	return s.refreshTokens.Revoke(ctx, userUUID, refreshToken)
}

// SweepExpiredTokens deletes all persisted refresh-token rows past their
// expiry and returns how many were removed.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return s.refreshTokens.SweepExpired(ctx)
}

// currentScope reads the user's memberships and derives the token scope: all
// organisation identifiers plus the highest role held among them.
func (s *AuthService) currentScope(ctx context.Context, userUUID uuid.UUID) ([]uuid.UUID, authz.Role, error) {
	memberships, err := s.memberships.MembershipsOf(ctx, userUUID)
	if err != nil {
		return nil, "", err
	}

	orgaUUIDs := make([]uuid.UUID, 0, len(memberships))
	roles := make([]authz.Role, 0, len(memberships))
	for _, membership := range memberships {
		orgaUUIDs = append(orgaUUIDs, membership.OrgaUUID)
		roles = append(roles, membership.Role)
	}
	return orgaUUIDs, authz.MaxRole(roles), nil
}

func (s *AuthService) issueRefreshToken(ctx context.Context, userUUID uuid.UUID, deviceFingerprint string) (string, error) {
	signed, claims, err := s.codec.IssueRefreshToken(userUUID, deviceFingerprint)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "error creating refresh token", err)
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "error creating refresh token", err)
	}

	row := &model.RefreshToken{
		JTI:       jti,
		UserUUID:  userUUID,
		Token:     signed,
		Revoked:   false,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.refreshTokens.Insert(ctx, row); err != nil {
		return "", err
	}
	return signed, nil
}

func mapCodecError(err error) error {
	switch {
	case errors.Is(err, jwtutil.ErrTokenExpired):
		return apperror.Wrap(apperror.KindTokenExpired, "token has expired", err)
	case errors.Is(err, jwtutil.ErrTokenInvalid):
		return apperror.Wrap(apperror.KindTokenInvalid, "invalid token", err)
	default:
		return apperror.Wrap(apperror.KindInternal, "error decoding token", err)
	}
}
