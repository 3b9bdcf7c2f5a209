package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	activityModel "churchku_backend/internals/features/activity/activity_logs/model"
	eventModel "churchku_backend/internals/features/calendar/events/model"
	prayerModel "churchku_backend/internals/features/care/prayers/model"
	visitModel "churchku_backend/internals/features/care/visits/model"
	churchMemberModel "churchku_backend/internals/features/churches/church_members/model"
	churchModel "churchku_backend/internals/features/churches/churches/model"
	joinModel "churchku_backend/internals/features/churches/join_requests/model"
	educationModel "churchku_backend/internals/features/groups/education/model"
	gatheringModel "churchku_backend/internals/features/groups/gatherings/model"
	groupModel "churchku_backend/internals/features/groups/groups/model"
	authModel "churchku_backend/internals/features/users/auth/model"
	memberModel "churchku_backend/internals/features/users/members/model"
)

// Invariants GORM tags cannot express: uniqueness among live rows and the prayer source check.
var constraintDDL = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_members_email_alive
		ON members (member_email)
		WHERE member_email IS NOT NULL AND member_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_church_members_alive
		ON church_members (church_member_church_id, church_member_member_id)
		WHERE church_member_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_groups_name_alive
		ON groups (group_church_id, group_name)
		WHERE group_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_group_members_active
		ON group_members (group_member_group_id, group_member_member_id)
		WHERE group_member_status = 'ACTIVE' AND group_member_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_education_programs_group
		ON education_programs (education_program_group_id)
		WHERE education_program_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_education_progress_week
		ON education_progresses (education_progress_group_member_id, education_progress_week)
		WHERE education_progress_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_gathering_members_alive
		ON gathering_members (gathering_member_gathering_id, gathering_member_group_member_id)
		WHERE gathering_member_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_visit_members_alive
		ON visit_members (visit_member_visit_id, visit_member_church_member_id)
		WHERE visit_member_deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS ix_gatherings_group_date
		ON gatherings (gathering_group_id, gathering_date)
		WHERE gathering_deleted_at IS NULL`,
	`ALTER TABLE prayers DROP CONSTRAINT IF EXISTS ck_prayers_single_source`,
	`ALTER TABLE prayers ADD CONSTRAINT ck_prayers_single_source
		CHECK (num_nonnulls(prayer_member_id, prayer_gathering_member_id, prayer_visit_member_id) = 1)`,
	`ALTER TABLE church_members DROP CONSTRAINT IF EXISTS ck_church_members_role`,
	`ALTER TABLE church_members ADD CONSTRAINT ck_church_members_role
		CHECK (church_member_role IN ('MEMBER','ADMIN','SUPER_ADMIN'))`,
	`ALTER TABLE education_programs DROP CONSTRAINT IF EXISTS ck_education_programs_counts`,
	`ALTER TABLE education_programs ADD CONSTRAINT ck_education_programs_counts
		CHECK (education_program_total_weeks > 0 AND education_program_graduated_count >= 0)`,
}

// Migrate creates or updates the schema. Safe to run on every boot.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&memberModel.MemberModel{},
		&churchModel.ChurchModel{},
		&churchMemberModel.ChurchMemberModel{},
		&joinModel.ChurchMemberRequestModel{},
		&groupModel.GroupModel{},
		&groupModel.GroupMemberModel{},
		&educationModel.EducationProgramModel{},
		&educationModel.EducationProgressModel{},
		&gatheringModel.GatheringModel{},
		&gatheringModel.GatheringMemberModel{},
		&visitModel.VisitModel{},
		&visitModel.VisitMemberModel{},
		&prayerModel.PrayerModel{},
		&eventModel.EventModel{},
		&activityModel.ActivityLogModel{},
		&authModel.RevokedTokenModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, ddl := range constraintDDL {
			if err := tx.Exec(ddl).Error; err != nil {
				return fmt.Errorf("constraint ddl: %w", err)
			}
		}
		log.Info("schema migrated", zap.Int("constraints", len(constraintDDL)))
		return nil
	})
}
