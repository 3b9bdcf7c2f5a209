package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"churchku_backend/internals/helpers/dbtime"
	"churchku_backend/internals/helpers/testdb"
)

func march2026Week2(t *testing.T) dbtime.Range {
	r, ok := dbtime.WeekRange(2026, time.March, 2)
	require.True(t, ok)
	return r
}

func TestBuildWeeklyTotalsAndDash(t *testing.T) {
	r := march2026Week2(t)
	g1, g2 := uuid.New(), uuid.New()
	ga := uuid.New()

	rep := buildWeekly(r, true,
		[]weekGroup{{GroupID: g1, GroupName: "1셀"}, {GroupID: g2, GroupName: "2셀"}},
		[]weekPick{{GroupID: g1, GatheringID: ga, GatheringDate: r.Start, GatheringCount: 2}},
		[]gatheringTally{{GatheringID: ga, MemberCount: 3, WorshipAttended: 2, GatheringAttended: 1}},
	)

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "2/3", rep.Groups[0].Worship.CountDisplay)
	assert.Equal(t, "67%", rep.Groups[0].Worship.RateDisplay)
	assert.Equal(t, "33%", rep.Groups[0].Attendance.RateDisplay)
	assert.Equal(t, "-", rep.Groups[1].Worship.CountDisplay)
	assert.Equal(t, "-", rep.Groups[1].Attendance.RateDisplay)
	assert.Nil(t, rep.Groups[1].GatheringID)

	assert.Equal(t, 1, rep.ReportedGroups)
	assert.Equal(t, 1, rep.AmbiguousCount)
	assert.Equal(t, "2/3", rep.Worship.CountDisplay)
}

func TestBuildWeeklyGatheringWithoutLines(t *testing.T) {
	r := march2026Week2(t)
	g, ga := uuid.New(), uuid.New()

	rep := buildWeekly(r, true,
		[]weekGroup{{GroupID: g, GroupName: "새가족반"}},
		[]weekPick{{GroupID: g, GatheringID: ga, GatheringDate: r.Start, GatheringCount: 1}},
		nil,
	)
	assert.Equal(t, "-", rep.Groups[0].Attendance.CountDisplay)
	assert.Equal(t, "0%", rep.Groups[0].Attendance.RateDisplay)
}

func TestWeeklyMissingWeekSkipsQueries(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewDashboardService(db, nil)

	r, ok := dbtime.WeekRange(2026, time.February, 6)
	require.False(t, ok)

	rep, err := svc.Weekly(context.Background(), uuid.New(), r, ok)
	require.NoError(t, err)
	assert.False(t, rep.WeekExists)
	assert.Empty(t, rep.Groups)
	assert.Equal(t, "-", rep.Worship.RateDisplay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeeklyReportsEarliestGathering(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewDashboardService(db, nil)

	r := march2026Week2(t)
	churchID, g1, g2, ga := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`(?s)SELECT g\.group_id.*FROM groups g`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "group_name", "group_type", "leader_names", "active_member_count"}).
			AddRow(g1.String(), "1셀", "NORMAL", "김하나", 4).
			AddRow(g2.String(), "2셀", "NORMAL", nil, 2))
	mock.ExpectQuery(`(?s)SELECT DISTINCT ON \(ga\.gathering_group_id\).*ORDER BY ga\.gathering_group_id, ga\.gathering_date, ga\.gathering_created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"gathering_group_id", "gathering_id", "gathering_date", "gathering_count"}).
			AddRow(g1.String(), ga.String(), r.Start, 1))
	mock.ExpectQuery(`(?s)FROM gathering_members gm.*GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"gathering_id", "member_count", "worship_attended", "gathering_attended"}).
			AddRow(ga.String(), 8, 3, 1))

	rep, err := svc.Weekly(context.Background(), churchID, r, true)
	require.NoError(t, err)
	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "3/8", rep.Groups[0].Worship.CountDisplay)
	assert.Equal(t, "38%", rep.Groups[0].Worship.RateDisplay)
	assert.Equal(t, "13%", rep.Groups[0].Attendance.RateDisplay)
	assert.Equal(t, "-", rep.Groups[1].Worship.RateDisplay)
	assert.Equal(t, 1, rep.ReportedGroups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsSumsEveryGatheringOfTheYear(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewDashboardService(db, nil)

	churchID := uuid.New()

	mock.ExpectQuery(`(?s)FROM groups g LEFT JOIN gatherings ga.*GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "group_name", "group_type", "gathering_count", "member_count", "worship_attended", "gathering_attended"}).
			AddRow(uuid.NewString(), "1셀", "NORMAL", 10, 40, 30, 20).
			AddRow(uuid.NewString(), "2셀", "NORMAL", 0, 0, 0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "?church_members"?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(57))
	mock.ExpectQuery(`(?s)SELECT count\(\*\) FROM group_members gm`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	st, err := svc.Stats(context.Background(), churchID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, st.GroupCount)
	assert.Equal(t, 10, st.GatheringCount)
	assert.EqualValues(t, 57, st.MemberCount)
	assert.EqualValues(t, 3, st.GraduatedCount)
	assert.Equal(t, "75%", st.Groups[0].Worship.RateDisplay)
	assert.Equal(t, "-", st.Groups[1].Worship.RateDisplay)
	assert.Equal(t, "30/40", st.Worship.CountDisplay)
	assert.Equal(t, "50%", st.Attendance.RateDisplay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderAttendanceXLSX(t *testing.T) {
	g := uuid.New()
	leader := "김하나"
	w1 := WeeklyReport{WeekExists: true, Groups: []GroupWeek{{
		GroupID: g, GroupName: "1셀", GroupType: "NORMAL", LeaderNames: &leader,
		WorshipSummary: FromCounts(2, 4), AttendanceSummary: FromCounts(1, 4),
	}}}
	w1.Window, _ = dbtime.WeekRange(2026, time.March, 1)
	w2 := WeeklyReport{WeekExists: true, Groups: []GroupWeek{{GroupID: g, GroupName: "1셀", GroupType: "NORMAL"}}}
	w2.Window, _ = dbtime.WeekRange(2026, time.March, 2)

	m := &MonthlyAttendance{Year: 2026, Month: time.March, Weeks: []WeeklyReport{w1, w2}}
	b, err := RenderAttendanceXLSX(m)
	require.NoError(t, err)
	assert.Equal(t, "attendance-2026-03.xlsx", m.FileName())

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	sheet := "2026-03 출석"
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "소그룹", get("A1"))
	assert.Equal(t, "1셀", get("A2"))
	assert.Equal(t, "김하나", get("C2"))
	assert.Equal(t, "2/4 (50%)", get("D2"))
	assert.Equal(t, "1/4 (25%)", get("E2"))
	assert.Equal(t, "-", get("F2"))
	assert.Equal(t, "2/4 (50%)", get("H2"))
	assert.Equal(t, "합계", get("A3"))
}
