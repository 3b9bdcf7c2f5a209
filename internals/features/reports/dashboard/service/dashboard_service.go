package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
	groupModel "churchku_backend/internals/features/groups/groups/model"
	"churchku_backend/internals/helpers/dbtime"
)

type DashboardService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDashboardService(db *gorm.DB, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{DB: db, Log: log}
}

/* ===================== Weekly ===================== */

type weekGroup struct {
	GroupID           uuid.UUID           `gorm:"column:group_id"`
	GroupName         string              `gorm:"column:group_name"`
	GroupType         constants.GroupType `gorm:"column:group_type"`
	LeaderNames       *string             `gorm:"column:leader_names"`
	ActiveMemberCount int                 `gorm:"column:active_member_count"`
}

// weekPick is the gathering a group reports for the week, with how many it held.
type weekPick struct {
	GroupID        uuid.UUID `gorm:"column:gathering_group_id"`
	GatheringID    uuid.UUID `gorm:"column:gathering_id"`
	GatheringDate  time.Time `gorm:"column:gathering_date"`
	GatheringCount int       `gorm:"column:gathering_count"`
}

type gatheringTally struct {
	GatheringID       uuid.UUID `gorm:"column:gathering_id"`
	MemberCount       int       `gorm:"column:member_count"`
	WorshipAttended   int       `gorm:"column:worship_attended"`
	GatheringAttended int       `gorm:"column:gathering_attended"`
}

type GroupWeek struct {
	GroupID           uuid.UUID           `json:"group_id"`
	GroupName         string              `json:"group_name"`
	GroupType         constants.GroupType `json:"group_type"`
	LeaderNames       *string             `json:"leader_names"`
	ActiveMemberCount int                 `json:"active_member_count"`
	GatheringID       *uuid.UUID          `json:"gathering_id"`
	GatheringDate     *time.Time          `json:"gathering_date"`
	// GatheringCount above 1 means the week is ambiguous; the earliest one is reported.
	GatheringCount int  `json:"gathering_count"`
	Worship        Cell `json:"worship"`
	Attendance     Cell `json:"attendance"`

	WorshipSummary    Summary `json:"-"`
	AttendanceSummary Summary `json:"-"`
}

type WeeklyReport struct {
	Window         dbtime.Range `json:"window"`
	WeekExists     bool         `json:"week_exists"`
	Groups         []GroupWeek  `json:"groups"`
	Worship        Cell         `json:"total_worship"`
	Attendance     Cell         `json:"total_attendance"`
	ReportedGroups int          `json:"reported_groups"`
	AmbiguousCount int          `json:"ambiguous_groups"`
}

const leaderNamesSQL = `(SELECT string_agg(m.member_name, ', ' ORDER BY m.member_name)
	   FROM group_members gm
	   JOIN members m ON m.member_id = gm.group_member_member_id
	  WHERE gm.group_member_group_id = g.group_id
	    AND gm.group_member_role = 'LEADER'
	    AND gm.group_member_status = 'ACTIVE'
	    AND gm.group_member_deleted_at IS NULL)`

// activeGroups lists the groups of the church running at some point in r.
func (s *DashboardService) activeGroups(db *gorm.DB, churchID uuid.UUID, r dbtime.Range) ([]weekGroup, error) {
	groups := make([]weekGroup, 0)
	err := db.Table("groups g").
		Where("g.group_church_id = ? AND g.group_deleted_at IS NULL", churchID).
		Where(groupModel.ActiveWithinSQL("g"), r.End, r.Start).
		Select(`g.group_id, g.group_name, g.group_type, ` + leaderNamesSQL + ` AS leader_names,
			(SELECT COUNT(*) FROM group_members gm
			  WHERE gm.group_member_group_id = g.group_id
			    AND gm.group_member_status = 'ACTIVE'
			    AND gm.group_member_deleted_at IS NULL) AS active_member_count`).
		Order("g.group_type DESC, g.group_name ASC").
		Scan(&groups).Error
	return groups, err
}

// earliestGatherings picks, per group, the first gathering of the window by date, then
// creation time, then id, so the choice is stable when a week holds more than one.
const earliestGatheringsSQL = `
SELECT DISTINCT ON (ga.gathering_group_id)
       ga.gathering_group_id, ga.gathering_id, ga.gathering_date,
       COUNT(*) OVER (PARTITION BY ga.gathering_group_id) AS gathering_count
  FROM gatherings ga
 WHERE ga.gathering_church_id = ?
   AND ga.gathering_deleted_at IS NULL
   AND ga.gathering_date BETWEEN ? AND ?
   AND ga.gathering_group_id = ANY(?::uuid[])
 ORDER BY ga.gathering_group_id, ga.gathering_date, ga.gathering_created_at, ga.gathering_id`

func tallies(db *gorm.DB, gatheringIDs []uuid.UUID) ([]gatheringTally, error) {
	out := make([]gatheringTally, 0)
	if len(gatheringIDs) == 0 {
		return out, nil
	}
	err := db.Table("gathering_members gm").
		Where("gm.gathering_member_gathering_id = ANY(?::uuid[]) AND gm.gathering_member_deleted_at IS NULL",
			pq.Array(idStrings(gatheringIDs))).
		Select(`gm.gathering_member_gathering_id AS gathering_id,
			COUNT(*) AS member_count,
			COUNT(*) FILTER (WHERE gm.gathering_member_worship_attended IS TRUE) AS worship_attended,
			COUNT(*) FILTER (WHERE gm.gathering_member_gathering_attended IS TRUE) AS gathering_attended`).
		Group("gm.gathering_member_gathering_id").
		Scan(&out).Error
	return out, err
}

// Weekly is the per-group attendance of one reporting week. A week that does not exist in
// its month yields an empty report rather than an error.
func (s *DashboardService) Weekly(ctx context.Context, churchID uuid.UUID, r dbtime.Range, weekExists bool) (*WeeklyReport, error) {
	if !weekExists {
		return buildWeekly(r, false, nil, nil, nil), nil
	}
	db := s.DB.WithContext(ctx)

	groups, err := s.activeGroups(db, churchID, r)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return buildWeekly(r, true, groups, nil, nil), nil
	}

	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.GroupID
	}
	picks := make([]weekPick, 0)
	if err := db.Raw(earliestGatheringsSQL, churchID, r.Start, r.End, pq.Array(idStrings(ids))).
		Scan(&picks).Error; err != nil {
		return nil, err
	}

	gatheringIDs := make([]uuid.UUID, len(picks))
	for i, p := range picks {
		gatheringIDs[i] = p.GatheringID
	}
	counts, err := tallies(db, gatheringIDs)
	if err != nil {
		return nil, err
	}

	rep := buildWeekly(r, true, groups, picks, counts)
	if rep.AmbiguousCount > 0 {
		s.Log.Warn("groups with more than one gathering in a reporting week",
			zap.String("church_id", churchID.String()),
			zap.Time("week_start", r.Start),
			zap.Int("groups", rep.AmbiguousCount))
	}
	return rep, nil
}

func buildWeekly(r dbtime.Range, weekExists bool, groups []weekGroup, picks []weekPick, counts []gatheringTally) *WeeklyReport {
	byGroup := make(map[uuid.UUID]weekPick, len(picks))
	for _, p := range picks {
		byGroup[p.GroupID] = p
	}
	byGathering := make(map[uuid.UUID]gatheringTally, len(counts))
	for _, t := range counts {
		byGathering[t.GatheringID] = t
	}

	rep := &WeeklyReport{Window: r, WeekExists: weekExists, Groups: make([]GroupWeek, 0, len(groups))}
	var worship, attendance Summary
	for _, g := range groups {
		row := GroupWeek{
			GroupID:           g.GroupID,
			GroupName:         g.GroupName,
			GroupType:         g.GroupType,
			LeaderNames:       g.LeaderNames,
			ActiveMemberCount: g.ActiveMemberCount,
		}
		if p, ok := byGroup[g.GroupID]; ok {
			id, date := p.GatheringID, p.GatheringDate
			row.GatheringID, row.GatheringDate, row.GatheringCount = &id, &date, p.GatheringCount
			t := byGathering[p.GatheringID]
			row.WorshipSummary = FromCounts(t.WorshipAttended, t.MemberCount)
			row.AttendanceSummary = FromCounts(t.GatheringAttended, t.MemberCount)
			rep.ReportedGroups++
			if p.GatheringCount > 1 {
				rep.AmbiguousCount++
			}
		}
		row.Worship = row.WorshipSummary.Cell()
		row.Attendance = row.AttendanceSummary.Cell()
		worship = worship.Add(row.WorshipSummary)
		attendance = attendance.Add(row.AttendanceSummary)
		rep.Groups = append(rep.Groups, row)
	}
	rep.Worship = worship.Cell()
	rep.Attendance = attendance.Cell()
	return rep
}

/* ===================== Yearly ===================== */

type GroupYear struct {
	GroupID        uuid.UUID           `json:"group_id"         gorm:"column:group_id"`
	GroupName      string              `json:"group_name"       gorm:"column:group_name"`
	GroupType      constants.GroupType `json:"group_type"       gorm:"column:group_type"`
	GatheringCount int                 `json:"gathering_count"  gorm:"column:gathering_count"`

	MemberCount       int `json:"-" gorm:"column:member_count"`
	WorshipAttended   int `json:"-" gorm:"column:worship_attended"`
	GatheringAttended int `json:"-" gorm:"column:gathering_attended"`

	Worship    Cell `json:"worship"    gorm:"-"`
	Attendance Cell `json:"attendance" gorm:"-"`
}

func (g *GroupYear) summaries() (Summary, Summary) {
	if g.GatheringCount == 0 {
		return Summary{}, Summary{}
	}
	return FromCounts(g.WorshipAttended, g.MemberCount), FromCounts(g.GatheringAttended, g.MemberCount)
}

type YearStats struct {
	Year           int          `json:"year"`
	Window         dbtime.Range `json:"window"`
	GroupCount     int          `json:"group_count"`
	GatheringCount int          `json:"gathering_count"`
	MemberCount    int64        `json:"member_count"`
	GraduatedCount int64        `json:"graduated_count"`
	Groups         []GroupYear  `json:"groups"`
	Worship        Cell         `json:"total_worship"`
	Attendance     Cell         `json:"total_attendance"`
}

// Stats sums attendance over every gathering in the year of every group active in it.
func (s *DashboardService) Stats(ctx context.Context, churchID uuid.UUID, year int) (*YearStats, error) {
	db := s.DB.WithContext(ctx)
	r := dbtime.YearRange(year)

	groups := make([]GroupYear, 0)
	if err := db.Table("groups g").
		Joins(`LEFT JOIN gatherings ga ON ga.gathering_group_id = g.group_id
			AND ga.gathering_deleted_at IS NULL
			AND ga.gathering_date BETWEEN ? AND ?`, r.Start, r.End).
		Joins(`LEFT JOIN gathering_members gm ON gm.gathering_member_gathering_id = ga.gathering_id
			AND gm.gathering_member_deleted_at IS NULL`).
		Where("g.group_church_id = ? AND g.group_deleted_at IS NULL", churchID).
		Where(groupModel.ActiveWithinSQL("g"), r.End, r.Start).
		Select(`g.group_id, g.group_name, g.group_type,
			COUNT(DISTINCT ga.gathering_id) AS gathering_count,
			COUNT(gm.gathering_member_id) AS member_count,
			COUNT(gm.gathering_member_id) FILTER (WHERE gm.gathering_member_worship_attended IS TRUE) AS worship_attended,
			COUNT(gm.gathering_member_id) FILTER (WHERE gm.gathering_member_gathering_attended IS TRUE) AS gathering_attended`).
		Group("g.group_id").
		Order("g.group_type DESC, g.group_name ASC").
		Scan(&groups).Error; err != nil {
		return nil, err
	}

	out := &YearStats{Year: year, Window: r, GroupCount: len(groups), Groups: groups}
	var worship, attendance Summary
	for i := range out.Groups {
		w, a := out.Groups[i].summaries()
		out.Groups[i].Worship, out.Groups[i].Attendance = w.Cell(), a.Cell()
		worship, attendance = worship.Add(w), attendance.Add(a)
		out.GatheringCount += out.Groups[i].GatheringCount
	}
	out.Worship, out.Attendance = worship.Cell(), attendance.Cell()

	if err := db.Table("church_members").
		Where("church_member_church_id = ? AND church_member_deleted_at IS NULL", churchID).
		Count(&out.MemberCount).Error; err != nil {
		return nil, err
	}
	if err := db.Table("group_members gm").
		Joins("JOIN groups g ON g.group_id = gm.group_member_group_id").
		Where("g.group_church_id = ? AND gm.group_member_deleted_at IS NULL", churchID).
		Where("gm.group_member_status = ?", constants.GroupMemberGraduated).
		Where("gm.group_member_graduated_at >= ? AND gm.group_member_graduated_at < ?", r.Start, r.End.AddDate(0, 0, 1)).
		Count(&out.GraduatedCount).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
