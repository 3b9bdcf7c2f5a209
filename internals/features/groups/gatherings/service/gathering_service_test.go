package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/features/groups/gatherings/dto"
	"churchku_backend/internals/helpers/testdb"
)

func groupRows(id, churchID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"group_id", "group_church_id", "group_name", "group_type"}).
		AddRow(id.String(), churchID.String(), "1셀", "NORMAL")
}

func gatheringRows(id, churchID, groupID uuid.UUID, date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"gathering_id", "gathering_church_id", "gathering_group_id", "gathering_date"}).
		AddRow(id.String(), churchID.String(), groupID.String(), date)
}

func TestCreateSeedsAttendanceFromActiveMembers(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGatheringService(db, nil)

	churchID, groupID := uuid.New(), uuid.New()
	gm1, gm2 := uuid.New(), uuid.New()
	yes, no := true, false

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).WillReturnRows(groupRows(groupID, churchID))
	mock.ExpectExec(`INSERT INTO "gatherings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "group_member_id" FROM "group_members"`).
		WillReturnRows(testdb.IDRows("group_member_id", gm1.String(), gm2.String()))
	mock.ExpectExec(`INSERT INTO "gathering_members"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "gatherings"`).
		WillReturnRows(gatheringRows(uuid.New(), churchID, groupID, date))
	mock.ExpectQuery(`FROM gathering_members gm`).
		WillReturnRows(sqlmock.NewRows([]string{
			"gathering_member_id", "gathering_member_group_member_id",
			"gathering_member_worship_attended", "gathering_member_gathering_attended",
			"member_id", "group_member_role", "member_name",
		}).
			AddRow(uuid.NewString(), gm1.String(), yes, nil, uuid.NewString(), "LEADER", "김하나").
			AddRow(uuid.NewString(), gm2.String(), no, nil, uuid.NewString(), "MEMBER", "이두리"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "gatherings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	detail, err := svc.Create(context.Background(), churchID, groupID, dto.GatheringCreateRequest{Date: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, detail.Members, 2)
	assert.Equal(t, "1/2", detail.Worship.CountDisplay)
	assert.Equal(t, "50%", detail.Worship.RateDisplay)
	assert.Equal(t, "0/2", detail.Attendance.CountDisplay)
	assert.Equal(t, 0, detail.SameWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithEmptyRosterSkipsSeeding(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGatheringService(db, nil)

	churchID, groupID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).WillReturnRows(groupRows(groupID, churchID))
	mock.ExpectExec(`INSERT INTO "gatherings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "group_members"`).WillReturnRows(testdb.IDRows("group_member_id"))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "gatherings"`).
		WillReturnRows(gatheringRows(uuid.New(), churchID, groupID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	mock.ExpectQuery(`FROM gathering_members gm`).
		WillReturnRows(sqlmock.NewRows([]string{"gathering_member_id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "gatherings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	detail, err := svc.Create(context.Background(), churchID, groupID, dto.GatheringCreateRequest{Date: "2024-03-10"})
	require.NoError(t, err)
	assert.Empty(t, detail.Members)
	assert.Equal(t, "-", detail.Worship.CountDisplay)
	assert.Equal(t, "0%", detail.Worship.RateDisplay)
	assert.Equal(t, 1, detail.SameWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMissingWeekIsEmpty(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGatheringService(db, nil)

	churchID, groupID := uuid.New(), uuid.New()
	month, week := 2, 6

	w, err := dto.ResolveWindow(2024, &month, &week)
	require.NoError(t, err)
	require.False(t, w.WeekExists)

	mock.ExpectQuery(`SELECT \* FROM "groups"`).WillReturnRows(groupRows(groupID, churchID))

	list, err := svc.List(context.Background(), churchID, groupID, w)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.False(t, list.WeekExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFillsAttendanceCells(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGatheringService(db, nil)

	churchID, groupID := uuid.New(), uuid.New()
	month := 3
	w, err := dto.ResolveWindow(2024, &month, nil)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "groups"`).WillReturnRows(groupRows(groupID, churchID))
	mock.ExpectQuery(`(?s)FROM gatherings g.*GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"gathering_id", "gathering_date", "member_count", "worship_attended", "gathering_attended"}).
			AddRow(uuid.NewString(), time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), 3, 1, 2))

	list, err := svc.List(context.Background(), churchID, groupID, w)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "33%", list.Items[0].Worship.RateDisplay)
	assert.Equal(t, "2/3", list.Items[0].Attendance.CountDisplay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadesToAttendance(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGatheringService(db, nil)

	churchID, groupID, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gatherings"`).
		WillReturnRows(gatheringRows(id, churchID, groupID, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
	mock.ExpectQuery(`SELECT "gathering_member_id" FROM "gathering_members"`).
		WillReturnRows(testdb.IDRows("gathering_member_id", uuid.NewString()))
	mock.ExpectQuery(`SELECT "prayer_id" FROM "prayers"`).
		WillReturnRows(testdb.IDRows("prayer_id"))
	mock.ExpectExec(`UPDATE "gathering_members" SET "gathering_member_deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "gatherings" SET "gathering_deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), churchID, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
