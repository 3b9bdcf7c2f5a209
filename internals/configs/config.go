package configs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret           string
	SessionTTL          time.Duration
	LoginTicketTTL      time.Duration
	SystemAdminMemberID string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	UploadDir           string
	CorsOrigins         []string
	TrustedProxies      []string
	LogLevel            string
	LogFormat           string
	CookieSecure        bool
	AppEnv              string
	Port                string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	// logger is not installed yet; messages are collected and flushed by main.
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			bootNotes = append(bootNotes, ".env 파일이 없어 시스템 환경변수를 사용합니다")
		} else {
			bootNotes = append(bootNotes, ".env 파일을 읽었습니다")
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	SessionTTL = GetEnvDuration("SESSION_TTL", 12*time.Hour)
	LoginTicketTTL = GetEnvDuration("LOGIN_TICKET_TTL", 5*time.Minute)
	SystemAdminMemberID = strings.TrimSpace(GetEnv("SYSTEM_ADMIN_MEMBER_ID"))
	RedisAddr = strings.TrimSpace(GetEnv("REDIS_ADDR"))
	RedisPassword = GetEnv("REDIS_PASSWORD")
	RedisDB = GetEnvInt("REDIS_DB", 0)
	UploadDir = GetEnv("UPLOAD_DIR", "storage/uploads")
	CorsOrigins = splitCSV(GetEnv("CORS_ORIGINS", "http://localhost:5173"))
	// X-Forwarded-For is honoured only from these CIDRs/IPs; empty means direct clients only.
	TrustedProxies = splitCSV(GetEnv("TRUSTED_PROXIES", ""))
	LogLevel = GetEnv("LOG_LEVEL", "info")
	LogFormat = GetEnv("LOG_FORMAT", "json")
	CookieSecure = GetEnvBool("COOKIE_SECURE", true)
	AppEnv = GetEnv("RAILWAY_ENVIRONMENT", GetEnv("APP_ENV", "development"))
	Port = GetEnv("PORT", "8080")

	if JWTSecret == "" {
		bootNotes = append(bootNotes, "JWT_SECRET 이 설정되지 않았습니다")
	}
}

var bootNotes []string

// FlushBootNotes writes the messages gathered before the logger existed.
func FlushBootNotes(log *zap.Logger) {
	for _, n := range bootNotes {
		log.Info(n)
	}
	bootNotes = nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN builds the postgres URL from DB_* variables.
func DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=churchku&options=-c statement_timeout=3000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

// =======================
// GORM LOGGER (zap)
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Log           *zap.Logger
}

func NewGormLogger(log *zap.Logger) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
		Log:           log.Named("gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.Log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.Log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.Log.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		l.Log.Error("query failed", append(fields, zap.Error(err))...)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.Log.Warn("slow query", fields...)
	case l.LogLevel >= gormLogger.Info:
		l.Log.Debug("query", fields...)
	}
}
