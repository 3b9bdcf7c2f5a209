package dto

import (
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/gatherings/model"
	dashboardService "churchku_backend/internals/features/reports/dashboard/service"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
)

type GatheringCreateRequest struct {
	Date          string  `json:"gathering_date"           validate:"required,datetime=2006-01-02"`
	Place         *string `json:"gathering_place"          validate:"omitempty,max=200"`
	LeaderComment *string `json:"gathering_leader_comment" validate:"omitempty,max=5000"`
	AdminComment  *string `json:"gathering_admin_comment"  validate:"omitempty,max=5000"`
}

func (r *GatheringCreateRequest) ToModel(churchID, groupID uuid.UUID) (*model.GatheringModel, error) {
	d, err := helper.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &model.GatheringModel{
		GatheringChurchID:      churchID,
		GatheringGroupID:       groupID,
		GatheringDate:          d,
		GatheringPlace:         helper.TrimPtr(r.Place),
		GatheringLeaderComment: helper.TrimPtr(r.LeaderComment),
		GatheringAdminComment:  helper.TrimPtr(r.AdminComment),
	}, nil
}

type GatheringUpdateRequest struct {
	Date          *string `json:"gathering_date"           validate:"omitempty,datetime=2006-01-02"`
	Place         *string `json:"gathering_place"          validate:"omitempty,max=200"`
	LeaderComment *string `json:"gathering_leader_comment" validate:"omitempty,max=5000"`
	AdminComment  *string `json:"gathering_admin_comment"  validate:"omitempty,max=5000"`
}

func (r *GatheringUpdateRequest) ToUpdates() (map[string]any, error) {
	u := map[string]any{}
	if r.Date != nil {
		d, err := helper.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		u["gathering_date"] = d
	}
	if r.Place != nil {
		u["gathering_place"] = helper.TrimPtr(r.Place)
	}
	if r.LeaderComment != nil {
		u["gathering_leader_comment"] = helper.TrimPtr(r.LeaderComment)
	}
	if r.AdminComment != nil {
		u["gathering_admin_comment"] = helper.TrimPtr(r.AdminComment)
	}
	return u, nil
}

// GatheringMemberUpdateRequest: attendance flags are set as sent, text "" clears.
type GatheringMemberUpdateRequest struct {
	WorshipAttended   *bool   `json:"gathering_member_worship_attended"`
	GatheringAttended *bool   `json:"gathering_member_gathering_attended"`
	Story             *string `json:"gathering_member_story"          validate:"omitempty,max=5000"`
	Goal              *string `json:"gathering_member_goal"           validate:"omitempty,max=5000"`
	LeaderComment     *string `json:"gathering_member_leader_comment" validate:"omitempty,max=5000"`
}

func (r *GatheringMemberUpdateRequest) ToUpdates() map[string]any {
	u := map[string]any{}
	if r.WorshipAttended != nil {
		u["gathering_member_worship_attended"] = *r.WorshipAttended
	}
	if r.GatheringAttended != nil {
		u["gathering_member_gathering_attended"] = *r.GatheringAttended
	}
	if r.Story != nil {
		u["gathering_member_story"] = helper.TrimPtr(r.Story)
	}
	if r.Goal != nil {
		u["gathering_member_goal"] = helper.TrimPtr(r.Goal)
	}
	if r.LeaderComment != nil {
		u["gathering_member_leader_comment"] = helper.TrimPtr(r.LeaderComment)
	}
	return u
}

/* ===================== Responses ===================== */

// GatheringRow is a gathering with its attendance aggregates.
type GatheringRow struct {
	model.GatheringModel
	MemberCount       int `json:"-" gorm:"column:member_count"`
	WorshipAttended   int `json:"-" gorm:"column:worship_attended"`
	GatheringAttended int `json:"-" gorm:"column:gathering_attended"`

	Worship    dashboardService.Cell `json:"worship"    gorm:"-"`
	Attendance dashboardService.Cell `json:"attendance" gorm:"-"`
}

func (r *GatheringRow) Fill() {
	r.Worship = dashboardService.FromCounts(r.WorshipAttended, r.MemberCount).Cell()
	r.Attendance = dashboardService.FromCounts(r.GatheringAttended, r.MemberCount).Cell()
}

type GatheringList struct {
	Window     dbtime.Range   `json:"window"`
	WeekExists bool           `json:"week_exists"`
	Items      []GatheringRow `json:"items"`
}

// GatheringMemberRow is one attendance line with the member behind it.
type GatheringMemberRow struct {
	model.GatheringMemberModel
	MemberID        uuid.UUID           `json:"member_id"         gorm:"column:member_id"`
	MemberName      string              `json:"member_name"       gorm:"column:member_name"`
	GroupMemberRole constants.GroupRole `json:"group_member_role" gorm:"column:group_member_role"`
}

type GatheringDetail struct {
	model.GatheringModel
	Members    []GatheringMemberRow  `json:"members"`
	Worship    dashboardService.Cell `json:"worship"`
	Attendance dashboardService.Cell `json:"attendance"`
	// SameWeek counts the group's other gatherings in the same reporting week.
	SameWeek int `json:"same_week_gatherings"`
}

func NewGatheringDetail(g model.GatheringModel, members []GatheringMemberRow) *GatheringDetail {
	worship := make([]*bool, len(members))
	attended := make([]*bool, len(members))
	for i := range members {
		worship[i] = members[i].GatheringMemberWorshipAttended
		attended[i] = members[i].GatheringMemberGatheringAttended
	}
	return &GatheringDetail{
		GatheringModel: g,
		Members:        members,
		Worship:        dashboardService.Summarize(worship).Cell(),
		Attendance:     dashboardService.Summarize(attended).Cell(),
	}
}

// Window is the resolved ?year=&month=&week= filter.
type Window struct {
	Range      dbtime.Range
	WeekExists bool
}

// ResolveWindow picks the narrowest window given: week needs month, month needs year.
func ResolveWindow(year int, month, week *int) (Window, error) {
	if week != nil && month == nil {
		return Window{}, helper.ErrValidation("week 조회에는 month 값이 필요합니다.")
	}
	if month != nil && (*month < 1 || *month > 12) {
		return Window{}, helper.ErrValidation("month 값은 1~12 입니다.")
	}
	switch {
	case week != nil:
		r, ok := dbtime.WeekRange(year, time.Month(*month), *week)
		return Window{Range: r, WeekExists: ok}, nil
	case month != nil:
		return Window{Range: dbtime.MonthRange(year, time.Month(*month)), WeekExists: true}, nil
	default:
		return Window{Range: dbtime.YearRange(year), WeekExists: true}, nil
	}
}
