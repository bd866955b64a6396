package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/authz"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *authz.Claims
	err    error
}

func (v *stubValidator) ValidateAccessToken(string) (*authz.Claims, error) {
	return v.claims, v.err
}

func runAuth(t *testing.T, validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, *authz.Claims) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *authz.Claims
	next := func(c echo.Context) error {
		claims, err := ClaimsFromContext(c)
		if err != nil {
			return err
		}
		seen = claims
		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, Auth(validator)(next)(c))
	return rec, seen
}

func TestAuthStoresClaims(t *testing.T) {
	claims := &authz.Claims{
		UserUUID:  uuid.New(),
		OrgaUUIDs: []uuid.UUID{uuid.New()},
		Role:      authz.RoleManager,
	}

	rec, seen := runAuth(t, &stubValidator{claims: claims}, "Bearer some-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, claims.UserUUID, seen.UserUUID)
	assert.Equal(t, authz.RoleManager, seen.Role)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runAuth(t, &stubValidator{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	rec, _ := runAuth(t, &stubValidator{}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	validator := &stubValidator{
		err: apperror.New(apperror.KindTokenExpired, "token has expired"),
	}

	rec, _ := runAuth(t, validator, "Bearer stale-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token has expired")
}

func TestClaimsFromContextWithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := ClaimsFromContext(c)
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}
