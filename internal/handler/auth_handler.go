package handler

import (
	"net/http"

	"auction-backoffice/internal/middleware"
	"auction-backoffice/internal/service"
	"auction-backoffice/pkg/logger"
	"auction-backoffice/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
}

func NewAuthHandler(auth *service.AuthService, accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts}
}

// Register creates a user together with their auction house, the user being
// its owner.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		log.Error("Invalid registration data", zap.String("email", req.Email))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and company_name are required"})
	}

	user, orga, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		log.Error("Registration failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return respondError(c, err)
	}

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.String("orga_uuid", orga.UUID.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"user":         user,
		"organisation": orga,
	})
}

// Login verifies credentials and returns an access + refresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email             string `json:"email"`
		Password          string `json:"password"`
		DeviceFingerprint string `json:"device_fingerprint,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, req.DeviceFingerprint)
	if err != nil {
		log.Error("Login failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("invalid_credentials")
		return respondError(c, err)
	}

	prometheus.ActiveTokensGauge.Inc()
	log.Info("User logged in", zap.String("email", req.Email))

	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (h *AuthHandler) Refresh(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.TokenRefreshCounter.Inc()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		log.Error("Failed to parse refresh request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	accessToken, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Error("Token refresh failed", zap.Error(err))
		prometheus.RecordAuthError("refresh_failed")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// Logout revokes the refresh token. Revoking an already-revoked or unknown
// token still answers 200 so retries stay harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		log.Error("Failed to parse logout request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	if err := h.auth.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		log.Error("Logout failed", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.TokenRevokedCounter.Inc()
	prometheus.ActiveTokensGauge.Dec()

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// TestToken validates the bearer token and echoes the resolved user.
func (h *AuthHandler) TestToken(c echo.Context) error {
	log := logger.FromContext(c)

	token, err := middleware.BearerToken(c)
	if err != nil {
		prometheus.RecordAuthError("missing_token")
		return respondError(c, err)
	}

	user, err := h.auth.CurrentUser(c.Request().Context(), token)
	if err != nil {
		log.Error("Token validation failed", zap.Error(err))
		prometheus.RecordAuthError("invalid_token")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}
