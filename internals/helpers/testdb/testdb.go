// Package testdb opens a GORM handle over go-sqlmock for service tests.
package testdb

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a postgres-dialect *gorm.DB backed by sqlmock. Queries are matched by regexp.
func New(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, mock
}

// IDRows is a single-column result set of ids.
func IDRows(column string, ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{column})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}
