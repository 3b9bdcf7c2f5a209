package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSourceKeepsExactlyOneReference(t *testing.T) {
	var p PrayerModel
	mid, gmid, vmid := uuid.New(), uuid.New(), uuid.New()

	p.SetSource(Personal{MemberID: mid})
	src, err := p.Source()
	require.NoError(t, err)
	assert.Equal(t, SourcePersonal, src.Kind())
	assert.Equal(t, mid, src.RefID())

	p.SetSource(GatheringSource{GatheringMemberID: gmid})
	assert.Nil(t, p.PrayerMemberID)
	src, err = p.Source()
	require.NoError(t, err)
	assert.Equal(t, GatheringSource{GatheringMemberID: gmid}, src)

	p.SetSource(VisitSource{VisitMemberID: vmid})
	assert.Nil(t, p.PrayerGatheringMemberID)
	src, err = p.Source()
	require.NoError(t, err)
	assert.Equal(t, SourceVisit, src.Kind())
}

func TestSourceRejectsAmbiguousRows(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	_, err := (&PrayerModel{}).Source()
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = (&PrayerModel{PrayerMemberID: &a, PrayerVisitMemberID: &b}).Source()
	assert.ErrorIs(t, err, ErrInvalidSource)

	assert.ErrorIs(t, (&PrayerModel{}).BeforeCreate(nil), ErrInvalidSource)
}

func TestNewSource(t *testing.T) {
	id := uuid.New()
	src, err := NewSource(SourceVisit, id)
	require.NoError(t, err)
	assert.Equal(t, VisitSource{VisitMemberID: id}, src)

	_, err = NewSource(SourcePersonal, uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidSource)
	_, err = NewSource("OTHER", id)
	assert.ErrorIs(t, err, ErrInvalidSource)

	k, ok := ParseSourceKind(" gathering ")
	assert.True(t, ok)
	assert.Equal(t, SourceGathering, k)
}
