package authz

import (
	"auction-backoffice/internal/apperror"
	"auction-backoffice/pkg/jwtutil"

	"github.com/google/uuid"
)

// Claims is the validated identity and scope of a caller, parsed from an
// access token into concrete types.
type Claims struct {
	UserUUID  uuid.UUID
	OrgaUUIDs []uuid.UUID
	Role      Role
}

// ClaimsFromToken converts decoded token claims into typed claims. Malformed
// identifiers or unknown roles mean a tampered or stale token and are rejected
// as invalid.
func ClaimsFromToken(tokenClaims *jwtutil.AccessClaims) (*Claims, error) {
	userUUID, err := uuid.Parse(tokenClaims.UserUUID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTokenInvalid, "invalid token", err)
	}

	orgaUUIDs := make([]uuid.UUID, 0, len(tokenClaims.OrgaUUIDs))
	for _, raw := range tokenClaims.OrgaUUIDs {
		orgaUUID, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindTokenInvalid, "invalid token", err)
		}
		orgaUUIDs = append(orgaUUIDs, orgaUUID)
	}

	role, ok := ParseRole(tokenClaims.Role)
	if !ok {
		return nil, apperror.New(apperror.KindTokenInvalid, "invalid token")
	}

	return &Claims{
		UserUUID:  userUUID,
		OrgaUUIDs: orgaUUIDs,
		Role:      role,
	}, nil
}
