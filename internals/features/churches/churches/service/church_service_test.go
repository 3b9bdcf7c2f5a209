package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/churches/churches/dto"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/testdb"
)

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestAssignAdminCreatesMembership(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewChurchService(db, zap.NewNop())
	churchID, memberID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "churches"`).WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "members"`).WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT \* FROM "church_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"church_member_id"}))
	mock.ExpectExec(`INSERT INTO "church_members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.AssignAdmin(context.Background(), uuid.New(), churchID,
		dto.AssignAdminRequest{MemberID: memberID, Role: "SUPER_ADMIN"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, constants.RoleSuperAdmin, res.Role)
	assert.NotEqual(t, uuid.Nil, res.ChurchMemberID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignAdminUpgradesExistingMembership(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewChurchService(db, zap.NewNop())
	churchID, memberID, cmID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "churches"`).WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "members"`).WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT \* FROM "church_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"church_member_id", "church_member_church_id", "church_member_member_id", "church_member_role"}).
			AddRow(cmID.String(), churchID.String(), memberID.String(), "MEMBER"))
	mock.ExpectExec(`UPDATE "church_members" SET "church_member_role"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.AssignAdmin(context.Background(), uuid.New(), churchID,
		dto.AssignAdminRequest{MemberID: memberID, Role: "ADMIN"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, cmID, res.ChurchMemberID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignAdminUnknownChurch(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewChurchService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "churches"`).WillReturnRows(countRows(0))
	mock.ExpectRollback()

	_, err := svc.AssignAdmin(context.Background(), uuid.New(), uuid.New(),
		dto.AssignAdminRequest{MemberID: uuid.New(), Role: "ADMIN"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordNeedsLoginAccount(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewChurchService(db, zap.NewNop())
	memberID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "member_id","member_email" FROM "members"`).
		WillReturnRows(sqlmock.NewRows([]string{"member_id", "member_email"}).AddRow(memberID.String(), nil))
	mock.ExpectRollback()

	err := svc.ResetPassword(context.Background(), uuid.New(), memberID, dto.ResetPasswordRequest{NewPassword: "password1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordLogsActivity(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewChurchService(db, zap.NewNop())
	memberID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "member_id","member_email" FROM "members"`).
		WillReturnRows(sqlmock.NewRows([]string{"member_id", "member_email"}).AddRow(memberID.String(), "a@b.c"))
	mock.ExpectExec(`UPDATE "members" SET "member_password"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.ResetPassword(context.Background(), uuid.New(), memberID, dto.ResetPasswordRequest{NewPassword: "password1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
