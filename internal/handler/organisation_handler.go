package handler

import (
	"net/http"

	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/middleware"
	"auction-backoffice/internal/model"
	"auction-backoffice/internal/service"
	"auction-backoffice/pkg/logger"
	"auction-backoffice/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrganisationHandler exposes organisation and membership management. Every
// organisation-scoped route goes through the organisation-access check before
// the permission check.
type OrganisationHandler struct {
	organisations *service.OrganisationService
}

func NewOrganisationHandler(organisations *service.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{organisations: organisations}
}

// Create adds a new organisation owned by the caller.
func (h *OrganisationHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganisationOperation("create")

	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var orga model.Organisation
	if err := c.Bind(&orga); err != nil {
		log.Error("Failed to parse organisation", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if orga.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}

	if err := h.organisations.Create(c.Request().Context(), &orga, claims.UserUUID); err != nil {
		log.Error("Failed to create organisation", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Organisation created",
		zap.String("orga_uuid", orga.UUID.String()),
		zap.String("owner_uuid", claims.UserUUID.String()))

	return c.JSON(http.StatusCreated, orga)
}

// List returns the caller's memberships with their organisations.
func (h *OrganisationHandler) List(c echo.Context) error {
	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	memberships, err := h.organisations.ListForUser(c.Request().Context(), claims.UserUUID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, memberships)
}

// Get returns one organisation the caller has access to.
func (h *OrganisationHandler) Get(c echo.Context) error {
	prometheus.RecordOrganisationOperation("access")

	_, orgaUUID, err := h.scopedClaims(c, authz.ActionView)
	if err != nil {
		return respondError(c, err)
	}

	orga, err := h.organisations.Get(c.Request().Context(), orgaUUID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orga)
}

// Update applies a partial update to the organisation profile.
func (h *OrganisationHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganisationOperation("update")

	_, orgaUUID, err := h.scopedClaims(c, authz.ActionEdit)
	if err != nil {
		return respondError(c, err)
	}

	var update model.OrganisationUpdate
	if err := c.Bind(&update); err != nil {
		log.Error("Failed to parse organisation update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	orga, err := h.organisations.Update(c.Request().Context(), orgaUUID, update)
	if err != nil {
		log.Error("Failed to update organisation", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orga)
}

// Delete removes the organisation. Owner-only; rejected while it still owns
// business records.
func (h *OrganisationHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganisationOperation("delete")

	_, orgaUUID, err := h.scopedClaims(c, authz.ActionDelete)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.organisations.Delete(c.Request().Context(), orgaUUID); err != nil {
		log.Error("Failed to delete organisation", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Organisation deleted", zap.String("orga_uuid", orgaUUID.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "organisation deleted"})
}

// ListMembers returns all role links of the organisation.
func (h *OrganisationHandler) ListMembers(c echo.Context) error {
	claims, orgaUUID, err := h.scopedAccess(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := authz.RequirePermission(claims.Role, authz.ResourceUsers, authz.ActionView); err != nil {
		return respondError(c, err)
	}

	memberships, err := h.organisations.ListMembers(c.Request().Context(), orgaUUID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, memberships)
}

// AddMember grants a user a role in the organisation, or updates an existing
// link. Owner-only.
func (h *OrganisationHandler) AddMember(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganisationOperation("add_member")

	claims, orgaUUID, err := h.scopedAccess(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := authz.RequirePermission(claims.Role, authz.ResourceUsers, authz.ActionCreate); err != nil {
		prometheus.RecordAuthError("permission_denied")
		return respondError(c, err)
	}

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		log.Error("Failed to parse member request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and role are required"})
	}

	role, ok := authz.ParseRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	membership, err := h.organisations.AddMember(c.Request().Context(), orgaUUID, req.Email, role)
	if err != nil {
		log.Error("Failed to add member", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Member added",
		zap.String("orga_uuid", orgaUUID.String()),
		zap.String("user_uuid", membership.UserUUID.String()),
		zap.String("role", role.String()))

	return c.JSON(http.StatusCreated, membership)
}

// RemoveMember deletes a role link. The organisation's last owner link cannot
// be removed.
func (h *OrganisationHandler) RemoveMember(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganisationOperation("remove_member")

	claims, orgaUUID, err := h.scopedAccess(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := authz.RequirePermission(claims.Role, authz.ResourceUsers, authz.ActionDelete); err != nil {
		prometheus.RecordAuthError("permission_denied")
		return respondError(c, err)
	}

	userUUID, err := parseUUIDParam(c, "user_uuid")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.organisations.RemoveMember(c.Request().Context(), orgaUUID, userUUID); err != nil {
		log.Error("Failed to remove member", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Member removed",
		zap.String("orga_uuid", orgaUUID.String()),
		zap.String("user_uuid", userUUID.String()))

	return c.JSON(http.StatusOK, echo.Map{"message": "member removed"})
}

// scopedAccess resolves claims and the organisation path parameter, then runs
// the cross-tenant check.
func (h *OrganisationHandler) scopedAccess(c echo.Context) (*authz.Claims, uuid.UUID, error) {
	claims, err := middleware.ClaimsFromContext(c)
	if err != nil {
		return nil, uuid.Nil, err
	}

	orgaUUID, err := parseUUIDParam(c, "orga_uuid")
	if err != nil {
		return nil, uuid.Nil, err
	}

	if err := authz.RequireOrganisationAccess(claims, orgaUUID); err != nil {
		prometheus.RecordAuthError("forbidden")
		return nil, uuid.Nil, err
	}
	return claims, orgaUUID, nil
}

// scopedClaims is scopedAccess plus a permission check on the organisation
// resource itself.
func (h *OrganisationHandler) scopedClaims(c echo.Context, action authz.Action) (*authz.Claims, uuid.UUID, error) {
	claims, orgaUUID, err := h.scopedAccess(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := authz.RequirePermission(claims.Role, authz.ResourceOrganisation, action); err != nil {
		prometheus.RecordAuthError("permission_denied")
		return nil, uuid.Nil, err
	}
	return claims, orgaUUID, nil
}
