package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/authz"
	"auction-backoffice/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func membershipRows(userUUID, orgaUUID uuid.UUID, role authz.Role) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"user_uuid", "orga_uuid", "role", "created_at", "updated_at"}).
		AddRow(userUUID.String(), orgaUUID.String(), role.String(), now, now)
}

func TestRemoveLastOwnerRejected(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMembershipStore(db)

	userUUID := uuid.New()
	orgaUUID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnRows(membershipRows(userUUID, orgaUUID, authz.RoleOwner))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "memberships" WHERE orga_uuid = $1 AND role = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := store.Remove(context.Background(), userUUID, orgaUUID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveOwnerWithCoOwner(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMembershipStore(db)

	userUUID := uuid.New()
	orgaUUID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnRows(membershipRows(userUUID, orgaUUID, authz.RoleOwner))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "memberships" WHERE orga_uuid = $1 AND role = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Remove(context.Background(), userUUID, orgaUUID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveNonOwnerSkipsOwnerCount(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMembershipStore(db)

	userUUID := uuid.New()
	orgaUUID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnRows(membershipRows(userUUID, orgaUUID, authz.RoleViewer))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Remove(context.Background(), userUUID, orgaUUID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveUnknownMembership(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMembershipStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_uuid", "orga_uuid", "role", "created_at", "updated_at"}))
	mock.ExpectRollback()

	err := store.Remove(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDemoteLastOwnerRejected(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMembershipStore(db)

	userUUID := uuid.New()
	orgaUUID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnRows(membershipRows(userUUID, orgaUUID, authz.RoleOwner))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "memberships" WHERE orga_uuid = $1 AND role = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := store.Upsert(context.Background(), &model.Membership{
		UserUUID: userUUID,
		OrgaUUID: orgaUUID,
		Role:     authz.RoleManager,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCreatesNewLink(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewMembershipStore(db)

	userUUID := uuid.New()
	orgaUUID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "memberships" WHERE user_uuid = $1 AND orga_uuid = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_uuid", "orga_uuid", "role", "created_at", "updated_at"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "memberships"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Upsert(context.Background(), &model.Membership{
		UserUUID: userUUID,
		OrgaUUID: orgaUUID,
		Role:     authz.RoleAccountant,
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}
