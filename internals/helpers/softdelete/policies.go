package softdelete

var prayersOfGatheringMember = Policy{
	Table:           "prayers",
	KeyColumn:       "prayer_id",
	DeletedAtColumn: "prayer_deleted_at",
	ParentColumn:    "prayer_gathering_member_id",
}

var prayersOfVisitMember = Policy{
	Table:           "prayers",
	KeyColumn:       "prayer_id",
	DeletedAtColumn: "prayer_deleted_at",
	ParentColumn:    "prayer_visit_member_id",
}

// Visit → VisitMembers → Prayers
var Visit = Policy{
	Table:           "visits",
	KeyColumn:       "visit_id",
	DeletedAtColumn: "visit_deleted_at",
	Children:        []Policy{VisitMember.withParent("visit_member_visit_id")},
}

// VisitMember → Prayers
var VisitMember = Policy{
	Table:           "visit_members",
	KeyColumn:       "visit_member_id",
	DeletedAtColumn: "visit_member_deleted_at",
	Children:        []Policy{prayersOfVisitMember},
}

// Gathering → GatheringMembers → Prayers
var Gathering = Policy{
	Table:           "gatherings",
	KeyColumn:       "gathering_id",
	DeletedAtColumn: "gathering_deleted_at",
	Children: []Policy{{
		Table:           "gathering_members",
		KeyColumn:       "gathering_member_id",
		DeletedAtColumn: "gathering_member_deleted_at",
		ParentColumn:    "gathering_member_gathering_id",
		Children:        []Policy{prayersOfGatheringMember},
	}},
}

// GroupMember → EducationProgress. Attendance lines stay as history.
var GroupMember = Policy{
	Table:           "group_members",
	KeyColumn:       "group_member_id",
	DeletedAtColumn: "group_member_deleted_at",
	Children: []Policy{
		{
			Table:           "education_progresses",
			KeyColumn:       "education_progress_id",
			DeletedAtColumn: "education_progress_deleted_at",
			ParentColumn:    "education_progress_group_member_id",
		},
	},
}

// Group → GroupMembers, EducationPrograms, Gatherings (each with their own subtree)
var Group = Policy{
	Table:           "groups",
	KeyColumn:       "group_id",
	DeletedAtColumn: "group_deleted_at",
	Children: []Policy{
		GroupMember.withParent("group_member_group_id"),
		{
			Table:           "education_programs",
			KeyColumn:       "education_program_id",
			DeletedAtColumn: "education_program_deleted_at",
			ParentColumn:    "education_program_group_id",
		},
		Gathering.withParent("gathering_group_id"),
	},
}

func (p Policy) withParent(col string) Policy {
	p.ParentColumn = col
	return p
}
