package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"churchku_backend/internals/configs"
)

// Redis is nil when REDIS_ADDR is not configured; callers fall back to Postgres.
var Redis *redis.Client

func ConnectRedis(log *zap.Logger) {
	if configs.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, token revocations stored in postgres")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, falling back to postgres", zap.String("addr", configs.RedisAddr), zap.Error(err))
		_ = client.Close()
		return
	}
	Redis = client
	log.Info("redis connected", zap.String("addr", configs.RedisAddr))
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
