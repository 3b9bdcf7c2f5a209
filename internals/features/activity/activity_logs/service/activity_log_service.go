package service

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"churchku_backend/internals/features/activity/activity_logs/model"
	helper "churchku_backend/internals/helpers"
)

type Entry struct {
	ChurchID   *uuid.UUID
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Detail     any
}

// Append writes one audit row using the caller's transaction.
func Append(tx *gorm.DB, e Entry) error {
	row := model.ActivityLogModel{
		ActivityLogChurchID:   e.ChurchID,
		ActivityLogActorID:    e.ActorID,
		ActivityLogAction:     e.Action,
		ActivityLogEntityType: e.EntityType,
		ActivityLogEntityID:   e.EntityID,
	}
	if e.Detail != nil {
		b, err := sonic.Marshal(e.Detail)
		if err != nil {
			return err
		}
		row.ActivityLogDetail = datatypes.JSON(b)
	}
	return tx.Create(&row).Error
}

type Actor struct {
	ActorID   uuid.UUID `json:"actor_id"   gorm:"column:actor_id"`
	ActorName *string   `json:"actor_name" gorm:"column:actor_name"`
	Action    string    `json:"action"     gorm:"column:action"`
	At        time.Time `json:"at"         gorm:"column:at"`
}

// FindLatestActor returns who last performed one of actions on the entity.
func FindLatestActor(db *gorm.DB, churchID uuid.UUID, entityType string, entityID uuid.UUID, actions ...string) (*Actor, error) {
	var rows []Actor
	err := db.Raw(`
		SELECT l.activity_log_actor_id   AS actor_id,
		       m.member_name             AS actor_name,
		       l.activity_log_action     AS action,
		       l.activity_log_created_at AS at
		FROM activity_logs l
		LEFT JOIN members m ON m.member_id = l.activity_log_actor_id AND m.member_deleted_at IS NULL
		WHERE l.activity_log_church_id = ?
		  AND l.activity_log_entity_type = ?
		  AND l.activity_log_entity_id = ?
		  AND l.activity_log_action IN ?
		  AND l.activity_log_deleted_at IS NULL
		ORDER BY l.activity_log_created_at DESC
		LIMIT 1
	`, churchID, entityType, entityID, actions).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrNotFound("처리 기록이 없습니다.")
	}
	return &rows[0], nil
}
