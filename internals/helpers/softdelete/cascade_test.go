package softdelete

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/helpers/testdb"
)

func TestVisitCascadeMarksChildrenBeforeParent(t *testing.T) {
	db, mock := testdb.New(t)

	visitID := uuid.New()
	vmID := uuid.New().String()
	prayerID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "visit_member_id" FROM "visit_members"`).
		WillReturnRows(testdb.IDRows("visit_member_id", vmID))
	mock.ExpectQuery(`SELECT "prayer_id" FROM "prayers"`).
		WillReturnRows(testdb.IDRows("prayer_id", prayerID))
	mock.ExpectExec(`UPDATE "prayers" SET "prayer_deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "visit_members" SET "visit_member_deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "visits" SET "visit_deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Run(db, Visit, []uuid.UUID{visitID}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCascadeSkipsEmptyLevels(t *testing.T) {
	db, mock := testdb.New(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "gathering_member_id" FROM "gathering_members"`).
		WillReturnRows(testdb.IDRows("gathering_member_id"))
	mock.ExpectExec(`UPDATE "gatherings" SET "gathering_deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Run(db, Gathering, []uuid.UUID{uuid.New()}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCascadeRollsBackOnFailure(t *testing.T) {
	db, mock := testdb.New(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "gathering_member_id" FROM "gathering_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := Run(db, Gathering, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNothingToDelete(t *testing.T) {
	db, mock := testdb.New(t)
	require.NoError(t, Apply(db, Group, nil, db.NowFunc()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupPolicyShape(t *testing.T) {
	var tables []string
	for _, ch := range Group.Children {
		tables = append(tables, ch.Table)
		assert.NotEmpty(t, ch.ParentColumn)
	}
	assert.Equal(t, []string{"group_members", "education_programs", "gatherings"}, tables)
	assert.Equal(t, "gathering_group_id", Group.Children[2].ParentColumn)
	// the shared Gathering policy stays a root
	assert.Empty(t, Gathering.ParentColumn)
}
