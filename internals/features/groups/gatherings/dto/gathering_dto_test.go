package dto

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
)

func TestResolveWindow(t *testing.T) {
	month, week := 3, 2
	w, err := ResolveWindow(2024, &month, &week)
	require.NoError(t, err)
	assert.True(t, w.WeekExists)
	// March 2024 starts on a Friday: week 1 is 1-2, week 2 is 3-9
	assert.Equal(t, dbtime.Date(2024, time.March, 3), w.Range.Start)
	assert.Equal(t, dbtime.Date(2024, time.March, 9), w.Range.End)

	w, err = ResolveWindow(2024, &month, nil)
	require.NoError(t, err)
	assert.Equal(t, 31, w.Range.Days())

	w, err = ResolveWindow(2024, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 366, w.Range.Days())
}

func TestResolveWindowNeedsMonthForWeek(t *testing.T) {
	week := 1
	_, err := ResolveWindow(2024, nil, &week)
	assert.Equal(t, http.StatusBadRequest, helper.StatusOf(err))

	month := 13
	_, err = ResolveWindow(2024, &month, nil)
	assert.Equal(t, http.StatusBadRequest, helper.StatusOf(err))
}
