package handler

import (
	"net/http"
	"strconv"
	"time"

	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/middleware"
	"auction-backoffice/internal/model"
	"auction-backoffice/internal/store"
	"auction-backoffice/pkg/logger"
	"auction-backoffice/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ClientHandler manages the buyer records of one organisation. It is the
// template for every other organisation-scoped entity: resolve claims, check
// organisation access, check the role permission, then touch storage.
type ClientHandler struct {
	clients *store.ClientStore
}

func NewClientHandler(clients *store.ClientStore) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	_, orgaUUID, err := h.scoped(c, authz.ActionCreate)
	if err != nil {
		return respondError(c, err)
	}

	var client model.Client
	if err := c.Bind(&client); err != nil {
		log.Error("Failed to parse client", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Ownership comes from the verified path, never from the payload.
	client.UUID = uuid.Nil
	client.OrgaUUID = orgaUUID

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.clients.Create(c.Request().Context(), &client); err != nil {
		log.Error("Failed to create client", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c echo.Context) error {
	_, orgaUUID, err := h.scoped(c, authz.ActionView)
	if err != nil {
		return respondError(c, err)
	}

	clientUUID, err := parseUUIDParam(c, "uuid")
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	client, err := h.clients.GetByUUID(c.Request().Context(), orgaUUID, clientUUID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	_, orgaUUID, err := h.scoped(c, authz.ActionEdit)
	if err != nil {
		return respondError(c, err)
	}

	clientUUID, err := parseUUIDParam(c, "uuid")
	if err != nil {
		return respondError(c, err)
	}

	var update model.ClientUpdate
	if err := c.Bind(&update); err != nil {
		log.Error("Failed to parse client update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	client, err := h.clients.GetByUUID(c.Request().Context(), orgaUUID, clientUUID)
	if err != nil {
		return respondError(c, err)
	}

	client.Apply(update)
	if err := h.clients.Update(c.Request().Context(), client); err != nil {
		log.Error("Failed to update client", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	_, orgaUUID, err := h.scoped(c, authz.ActionDelete)
	if err != nil {
		return respondError(c, err)
	}

	clientUUID, err := parseUUIDParam(c, "uuid")
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.clients.Delete(c.Request().Context(), orgaUUID, clientUUID); err != nil {
		log.Error("Failed to delete client", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "client deleted"})
}

func (h *ClientHandler) List(c echo.Context) error {
	_, orgaUUID, err := h.scoped(c, authz.ActionView)
	if err != nil {
		return respondError(c, err)
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	defer prometheus.TrackDBOperation("query")(time.Now())
	clients, err := h.clients.ListByOrganisation(c.Request().Context(), orgaUUID, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) scoped(c echo.Context, action authz.Action) (*authz.Claims, uuid.UUID, error) {
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

	if err := authz.RequirePermission(claims.Role, authz.ResourceClients, action); err != nil {
		prometheus.RecordAuthError("permission_denied")
		return nil, uuid.Nil, err
	}
	return claims, orgaUUID, nil
}
