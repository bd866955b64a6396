package authz

import (
	"testing"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/pkg/jwtutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsFromToken(t *testing.T) {
	userUUID := uuid.New()
	orgaUUID := uuid.New()

	claims, err := ClaimsFromToken(&jwtutil.AccessClaims{
		UserUUID:  userUUID.String(),
		OrgaUUIDs: []string{orgaUUID.String()},
		Role:      "operator",
	})
	require.NoError(t, err)

	assert.Equal(t, userUUID, claims.UserUUID)
	require.Len(t, claims.OrgaUUIDs, 1)
	assert.Equal(t, orgaUUID, claims.OrgaUUIDs[0])
	assert.Equal(t, RoleOperator, claims.Role)
}

func TestClaimsFromTokenRejectsMalformed(t *testing.T) {
	_, err := ClaimsFromToken(&jwtutil.AccessClaims{
		UserUUID: "not-a-uuid",
		Role:     "viewer",
	})
	assert.Equal(t, apperror.KindTokenInvalid, apperror.KindOf(err))

	_, err = ClaimsFromToken(&jwtutil.AccessClaims{
		UserUUID:  uuid.NewString(),
		OrgaUUIDs: []string{"nope"},
		Role:      "viewer",
	})
	assert.Equal(t, apperror.KindTokenInvalid, apperror.KindOf(err))

	_, err = ClaimsFromToken(&jwtutil.AccessClaims{
		UserUUID: uuid.NewString(),
		Role:     "superhero",
	})
	assert.Equal(t, apperror.KindTokenInvalid, apperror.KindOf(err))
}
