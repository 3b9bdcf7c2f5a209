package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "churchku_backend/internals/features/users/auth/model"
)

// RevocationStore remembers logged-out session ids until their tokens expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewRevocationStore prefers Redis and falls back to the revoked_tokens table.
func NewRevocationStore(db *gorm.DB, rdb *redis.Client) RevocationStore {
	if rdb != nil {
		return &RedisRevocations{Client: rdb, Prefix: "churchku:revoked:"}
	}
	return &DBRevocations{DB: db}
}

/* ========== Redis ========== */

type RedisRevocations struct {
	Client *redis.Client
	Prefix string
}

func (r *RedisRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, r.Prefix+jti, 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, r.Prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

/* ========== Postgres ========== */

type DBRevocations struct {
	DB *gorm.DB
}

func (d *DBRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	return d.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "revoked_token_jti"}}, DoNothing: true}).
		Create(&authModel.RevokedTokenModel{
			RevokedTokenJTI:       jti,
			RevokedTokenExpiresAt: until,
		}).Error
}

func (d *DBRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := d.DB.WithContext(ctx).Raw(`
		SELECT EXISTS(
			SELECT 1 FROM revoked_tokens
			WHERE revoked_token_jti = ? AND revoked_token_deleted_at IS NULL
		)`, jti).Scan(&exists).Error
	return exists, err
}

// PurgeExpired removes revocations whose tokens can no longer be presented.
func PurgeExpired(db *gorm.DB, before time.Time, batch int) (int64, error) {
	res := db.Exec(`
		DELETE FROM revoked_tokens
		WHERE revoked_token_id IN (
			SELECT revoked_token_id FROM revoked_tokens
			WHERE revoked_token_expires_at < ?
			LIMIT ?
		)`, before, batch)
	return res.RowsAffected, res.Error
}
