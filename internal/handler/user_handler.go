package handler

import (
	"net/http"

	"auction-backoffice/internal/middleware"
	"auction-backoffice/internal/model"
	"auction-backoffice/internal/service"
	"auction-backoffice/pkg/logger"
	"auction-backoffice/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler exposes profile endpoints for the authenticated user.
type UserHandler struct {
	accounts *service.AccountService
}

func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetProfile returns the caller's user record.
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.accounts.Get(c.Request().Context(), claims.UserUUID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's profile. Email,
// identifier and password cannot be changed here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var update model.UserUpdate
	if err := c.Bind(&update); err != nil {
		log.Error("Failed to parse profile update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), claims.UserUUID, update)
	if err != nil {
		log.Error("Profile update failed", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Profile updated", zap.String("user_uuid", user.UUID.String()))
	return c.JSON(http.StatusOK, user)
}

// DeleteAccount removes the caller's account. Rejected while the user still
// belongs to organisations.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	log := logger.FromContext(c)

	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.accounts.Delete(c.Request().Context(), claims.UserUUID); err != nil {
		log.Error("Account deletion failed", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Account deleted", zap.String("user_uuid", claims.UserUUID.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}

// ChangePassword replaces the caller's password after checking the current
// one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		log.Error("Failed to parse password change request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password and new_password are required"})
	}

	err = h.accounts.ChangePassword(c.Request().Context(), claims.UserUUID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		log.Error("Password change failed", zap.Error(err))
		prometheus.RecordAuthError("password_change_failed")
		return respondError(c, err)
	}

	log.Info("Password changed", zap.String("user_uuid", claims.UserUUID.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
