package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/groups/dto"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/testdb"
)

func adminOf(churchID uuid.UUID) *helperAuth.Identity {
	return &helperAuth.Identity{MemberID: uuid.New(), ChurchID: churchID, Role: constants.RoleAdmin}
}

func groupRows(id, churchID uuid.UUID, name string, typ constants.GroupType) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"group_id", "group_church_id", "group_name", "group_type"}).
		AddRow(id.String(), churchID.String(), name, string(typ))
}

func groupMemberRows(id, groupID, memberID uuid.UUID, status constants.GroupMemberStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"group_member_id", "group_member_group_id", "group_member_member_id",
		"group_member_role", "group_member_status",
	}).AddRow(id.String(), groupID.String(), memberID.String(), "MEMBER", string(status))
}

func TestAssignMembersSkipsActiveMembers(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID, groupID := uuid.New(), uuid.New()
	m1, m2 := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(groupID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`SELECT .*church_member_member_id.* FROM .*church_members`).
		WillReturnRows(testdb.IDRows("church_member_member_id", m1.String(), m2.String()))
	mock.ExpectQuery(`SELECT .*group_member_member_id.* FROM "group_members"`).
		WillReturnRows(testdb.IDRows("group_member_member_id", m1.String()))
	mock.ExpectExec(`INSERT INTO "group_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// m2 twice in the request still counts once
	res, err := svc.AssignMembers(context.Background(), adminOf(churchID), groupID,
		[]uuid.UUID{m1, m2, m2}, constants.GroupRoleMember)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AssignedCount)
	assert.Equal(t, 1, res.SkippedCount)
	assert.Equal(t, []uuid.UUID{m2}, res.AssignedIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignMembersAllSkippedIsConflict(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID, groupID, m1 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(groupID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`FROM .*church_members`).
		WillReturnRows(testdb.IDRows("church_member_member_id", m1.String()))
	mock.ExpectQuery(`FROM "group_members"`).
		WillReturnRows(testdb.IDRows("group_member_member_id", m1.String()))
	mock.ExpectRollback()

	res, err := svc.AssignMembers(context.Background(), adminOf(churchID), groupID,
		[]uuid.UUID{m1}, constants.GroupRoleMember)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, http.StatusConflict, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignMembersUnknownGroup(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}))
	mock.ExpectRollback()

	_, err := svc.AssignMembers(context.Background(), adminOf(uuid.New()), uuid.New(),
		[]uuid.UUID{uuid.New()}, constants.GroupRoleMember)
	assert.Equal(t, http.StatusNotFound, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignMembersRejectsOutsiders(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID, groupID, m1 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(groupID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`FROM .*church_members`).
		WillReturnRows(testdb.IDRows("church_member_member_id"))
	mock.ExpectRollback()

	_, err := svc.AssignMembers(context.Background(), adminOf(churchID), groupID,
		[]uuid.UUID{m1}, constants.GroupRoleMember)
	assert.Equal(t, http.StatusBadRequest, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroupDuplicateName(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "groups"`).
		WithArgs(sqlmock.AnyArg(), "1셀").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.New(), dto.GroupCreateRequest{Name: "  1셀 "})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenameGroupDuplicateName(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID, groupID := uuid.New(), uuid.New()
	name := "2셀"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(groupID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Patch(context.Background(), churchID, groupID, dto.GroupUpdateRequest{Name: &name})
	assert.Equal(t, http.StatusConflict, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraduateMemberCommitsAllEffects(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID := uuid.New()
	srcID, targetID := uuid.New(), uuid.New()
	gmID, memberID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(srcID, churchID, "새가족반", constants.GroupTypeNewcomer))
	mock.ExpectQuery(`SELECT \* FROM "group_members" .* FOR UPDATE`).
		WillReturnRows(groupMemberRows(gmID, srcID, memberID, constants.GroupMemberActive))
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(targetID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`SELECT \* FROM "education_programs" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"education_program_id", "education_program_group_id", "education_program_name",
			"education_program_total_weeks", "education_program_graduated_count",
		}).AddRow(uuid.NewString(), srcID.String(), "새가족 교육", 5, 4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "group_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "group_members" SET .*"group_member_status"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "group_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "education_programs" SET "education_program_graduated_count"=education_program_graduated_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "activity_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.GraduateMember(context.Background(), adminOf(churchID), srcID, gmID, targetID)
	require.NoError(t, err)
	assert.Equal(t, constants.GroupMemberGraduated, res.Source.GroupMemberStatus)
	assert.NotNil(t, res.Source.GroupMemberGraduatedAt)
	assert.Equal(t, targetID, res.Target.GroupMemberGroupID)
	assert.Equal(t, memberID, res.Target.GroupMemberMemberID)
	assert.Equal(t, constants.GroupMemberActive, res.Target.GroupMemberStatus)
	assert.Equal(t, constants.GroupRoleMember, res.Target.GroupMemberRole)
	assert.Equal(t, 5, res.GraduatedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraduateMemberAlreadyInTargetRollsBack(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID := uuid.New()
	srcID, targetID := uuid.New(), uuid.New()
	gmID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(srcID, churchID, "새가족반", constants.GroupTypeNewcomer))
	mock.ExpectQuery(`SELECT \* FROM "group_members"`).
		WillReturnRows(groupMemberRows(gmID, srcID, uuid.New(), constants.GroupMemberActive))
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(targetID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`SELECT \* FROM "education_programs"`).
		WillReturnRows(sqlmock.NewRows([]string{"education_program_id", "education_program_graduated_count"}).
			AddRow(uuid.NewString(), 4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "group_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	res, err := svc.GraduateMember(context.Background(), adminOf(churchID), srcID, gmID, targetID)
	assert.Nil(t, res)
	assert.Equal(t, http.StatusConflict, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraduateMemberFailureAfterStatusChangeRollsBack(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID := uuid.New()
	srcID, targetID := uuid.New(), uuid.New()
	gmID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(srcID, churchID, "새가족반", constants.GroupTypeNewcomer))
	mock.ExpectQuery(`SELECT \* FROM "group_members"`).
		WillReturnRows(groupMemberRows(gmID, srcID, uuid.New(), constants.GroupMemberActive))
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(targetID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`SELECT \* FROM "education_programs"`).
		WillReturnRows(sqlmock.NewRows([]string{"education_program_id", "education_program_graduated_count"}).
			AddRow(uuid.NewString(), 4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "group_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "group_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "group_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.GraduateMember(context.Background(), adminOf(churchID), srcID, gmID, targetID)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraduateMemberOnlyFromNewcomerGroups(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	churchID, srcID, gmID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(groupRows(srcID, churchID, "1셀", constants.GroupTypeNormal))
	mock.ExpectQuery(`SELECT \* FROM "group_members"`).
		WillReturnRows(groupMemberRows(gmID, srcID, uuid.New(), constants.GroupMemberActive))
	mock.ExpectRollback()

	_, err := svc.GraduateMember(context.Background(), adminOf(churchID), srcID, gmID, uuid.New())
	assert.Equal(t, http.StatusConflict, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraduateMemberIntoSameGroup(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	id := uuid.New()
	_, err := svc.GraduateMember(context.Background(), adminOf(uuid.New()), id, uuid.New(), id)
	assert.Equal(t, http.StatusBadRequest, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsBlankName(t *testing.T) {
	db, mock := testdb.New(t)
	svc := NewGroupService(db, nil)

	_, err := svc.Create(context.Background(), uuid.New(), dto.GroupCreateRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, helper.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
