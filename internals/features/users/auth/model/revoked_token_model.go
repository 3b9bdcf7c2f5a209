package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevokedTokenModel keeps a logged-out session id until the token would have expired.
// Only used when Redis is not configured.
type RevokedTokenModel struct {
	RevokedTokenID        uuid.UUID      `gorm:"type:uuid;primaryKey;column:revoked_token_id"               json:"revoked_token_id"`
	RevokedTokenJTI       string         `gorm:"type:varchar(64);not null;uniqueIndex;column:revoked_token_jti" json:"revoked_token_jti"`
	RevokedTokenExpiresAt time.Time      `gorm:"type:timestamptz;not null;index;column:revoked_token_expires_at" json:"revoked_token_expires_at"`
	RevokedTokenCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:revoked_token_created_at" json:"revoked_token_created_at"`
	RevokedTokenDeletedAt gorm.DeletedAt `gorm:"column:revoked_token_deleted_at"                            json:"-"`
}

func (RevokedTokenModel) TableName() string { return "revoked_tokens" }

func (m *RevokedTokenModel) BeforeCreate(tx *gorm.DB) error {
	if m.RevokedTokenID == uuid.Nil {
		m.RevokedTokenID = uuid.New()
	}
	return nil
}
