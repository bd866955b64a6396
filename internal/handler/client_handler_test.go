package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/middleware"
	"auction-backoffice/internal/model"
	"auction-backoffice/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixedValidator struct {
	claims *authz.Claims
}

func (v *fixedValidator) ValidateAccessToken(string) (*authz.Claims, error) {
	return v.claims, nil
}

// newClientAPI wires the client routes exactly as main does: bearer middleware
// first, then the handler over a sqlmock-backed store.
func newClientAPI(t *testing.T, claims *authz.Claims) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	h := NewClientHandler(store.NewClientStore(db))

	e := echo.New()
	api := e.Group("/api", middleware.Auth(&fixedValidator{claims: claims}))
	api.POST("/organisations/:orga_uuid/clients", h.Create)
	api.GET("/organisations/:orga_uuid/clients/:uuid", h.Get)
	return e, mock
}

func doClientRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestClientRoutesRejectCrossTenantAccess(t *testing.T) {
	orgaA := uuid.New()
	orgaB := uuid.New()

	e, mock := newClientAPI(t, &authz.Claims{
		UserUUID:  uuid.New(),
		OrgaUUIDs: []uuid.UUID{orgaA},
		Role:      authz.RoleOwner,
	})

	// Token scoped to organisation A; request targets organisation B.
	rec := doClientRequest(e, http.MethodPost,
		"/api/organisations/"+orgaB.String()+"/clients",
		`{"first_name":"Paul","last_name":"Durand"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized for this organisation")
	// Storage is never reached.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientCreateDeniedForViewer(t *testing.T) {
	orgaA := uuid.New()

	e, mock := newClientAPI(t, &authz.Claims{
		UserUUID:  uuid.New(),
		OrgaUUIDs: []uuid.UUID{orgaA},
		Role:      authz.RoleViewer,
	})

	rec := doClientRequest(e, http.MethodPost,
		"/api/organisations/"+orgaA.String()+"/clients",
		`{"first_name":"Paul","last_name":"Durand"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientCreateOwnershipFromPath(t *testing.T) {
	orgaA := uuid.New()

	e, mock := newClientAPI(t, &authz.Claims{
		UserUUID:  uuid.New(),
		OrgaUUIDs: []uuid.UUID{orgaA},
		Role:      authz.RoleOperator,
	})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "clients"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The payload claims another organisation; the verified path wins.
	rec := doClientRequest(e, http.MethodPost,
		"/api/organisations/"+orgaA.String()+"/clients",
		`{"first_name":"Paul","last_name":"Durand","orga_uuid":"`+uuid.NewString()+`"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var client model.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
	assert.Equal(t, orgaA, client.OrgaUUID)
	assert.NotEqual(t, uuid.Nil, client.UUID)
	require.NoError(t, mock.ExpectationsWereMet())
}
