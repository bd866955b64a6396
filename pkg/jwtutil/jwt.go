package jwtutil

import (
	"errors"
	"time"

	"auction-backoffice/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Sentinel errors returned by decode operations. Callers map them onto the
// application error taxonomy.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AccessClaims is the payload of a short-lived access token. Validity is
// purely cryptographic and time-based; nothing is persisted for it.
type AccessClaims struct {
	UserUUID          string   `json:"user_uuid"`
	OrgaUUIDs         []string `json:"orga_uuids"`
	Role              string   `json:"role"`
	DeviceFingerprint string   `json:"device_fingerprint,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token. A matching row
// in the refresh_tokens table is what makes early revocation enforceable.
type RefreshClaims struct {
	UserUUID          string `json:"user_uuid"`
	DeviceFingerprint string `json:"device_fingerprint,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies both token families. The two secrets are
// independent: an access secret must never validate a refresh token and vice
// versa.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewCodec builds a codec from the auth section of the configuration.
func NewCodec(cfg *config.AuthConfig) *Codec {
	return &Codec{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// IssueAccessToken signs a token scoped to the given organisations with a
// fresh jti and an expiry of now + the configured access TTL.
func (c *Codec) IssueAccessToken(userUUID uuid.UUID, orgaUUIDs []uuid.UUID, role string, deviceFingerprint string) (string, error) {
	orgas := make([]string, len(orgaUUIDs))
	for i, orga := range orgaUUIDs {
		orgas[i] = orga.String()
	}

	now := time.Now()
	claims := AccessClaims{
		UserUUID:          userUUID.String(),
		OrgaUUIDs:         orgas,
		Role:              role,
		DeviceFingerprint: deviceFingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.accessSecret)
}

// DecodeAccessToken verifies signature and expiry and returns the claims.
func (c *Codec) DecodeAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.decode(tokenString, claims, c.accessSecret); err != nil {
		return nil, err
	}
	if claims.UserUUID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// IssueRefreshToken signs a refresh token and returns the signed string along
// with its claims so the caller can persist the matching row.
func (c *Codec) IssueRefreshToken(userUUID uuid.UUID, deviceFingerprint string) (string, *RefreshClaims, error) {
	now := time.Now()
	claims := &RefreshClaims{
		UserUUID:          userUUID.String(),
		DeviceFingerprint: deviceFingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.refreshSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// DecodeRefreshToken verifies signature, expiry and issuer.
func (c *Codec) DecodeRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.decode(tokenString, claims, c.refreshSecret); err != nil {
		return nil, err
	}
	if claims.UserUUID == "" || claims.Issuer != c.issuer {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// AccessTTL exposes the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

// RefreshTTL exposes the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

func (c *Codec) decode(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			return ErrTokenInvalid
		}
		// Not a parse or validation outcome; let the caller treat it as an
		// internal failure rather than a bad token.
		return err
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
