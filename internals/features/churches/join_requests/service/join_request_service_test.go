package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/constants"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/testdb"
)

var requestColumns = []string{
	"church_member_request_id", "church_member_request_church_id",
	"church_member_request_member_id", "church_member_request_status",
}

func admin() *helperAuth.Identity {
	return &helperAuth.Identity{MemberID: uuid.New(), ChurchID: uuid.New(), Role: constants.RoleAdmin}
}

func pendingRow(id uuid.UUID, a *helperAuth.Identity, memberID uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows(requestColumns).AddRow(id.String(), a.ChurchID.String(), memberID.String(), status)
}

func TestApproveCreatesMembership(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewJoinRequestService(db)
	a, reqID, memberID := admin(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "church_member_requests" .* FOR UPDATE`).
		WillReturnRows(pendingRow(reqID, a, memberID, "PENDING"))
	mock.ExpectExec(`UPDATE "church_member_requests" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "church_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"church_member_id"}))
	mock.ExpectExec(`INSERT INTO "church_members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Approve(context.Background(), a, reqID)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestAccepted, res.Status)
	assert.True(t, res.MembershipCreated)
	require.NotNil(t, res.ChurchMemberID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveKeepsExistingMembership(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewJoinRequestService(db)
	a, reqID, memberID, cmID := admin(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "church_member_requests"`).
		WillReturnRows(pendingRow(reqID, a, memberID, "PENDING"))
	mock.ExpectExec(`UPDATE "church_member_requests" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "church_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"church_member_id", "church_member_role"}).AddRow(cmID.String(), "ADMIN"))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Approve(context.Background(), a, reqID)
	require.NoError(t, err)
	assert.False(t, res.MembershipCreated)
	assert.Equal(t, cmID, *res.ChurchMemberID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecidedRequestIsConflict(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewJoinRequestService(db)
	a, reqID := admin(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "church_member_requests"`).
		WillReturnRows(pendingRow(reqID, a, uuid.New(), "ACCEPTED"))
	mock.ExpectRollback()

	_, err := svc.Decline(context.Background(), a, reqID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestOfOtherChurchIsNotFound(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewJoinRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "church_member_requests"`).
		WillReturnRows(sqlmock.NewRows(requestColumns))
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), admin(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, helper.StatusOf(err))
}

func TestApproverFromActivityLog(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewJoinRequestService(db)
	actorID := uuid.New()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM activity_logs l`).
		WillReturnRows(sqlmock.NewRows([]string{"actor_id", "actor_name", "action", "at"}).
			AddRow(actorID.String(), "박목사", "JOIN_REQUEST_APPROVED", at))

	got, err := svc.Approver(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, actorID, got.ActorID)
	assert.Equal(t, "박목사", *got.ActorName)
	assert.True(t, at.Equal(got.At))
}
