package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	setupTestDB(t)

	createParty(t, "Alpha")
	createParty(t, "Beta")

	// three deputies, one inactive
	first := createDeputy(t, "First", "Attendee", nil, nil)
	second := createDeputy(t, "Second", "Attendee", nil, nil)
	idle := createDeputy(t, "Idle", "Inactive", nil, nil)
	deactivate(t, &idle)

	past := createSession(t, "Past sitting", time.Now().AddDate(0, 0, -7), false)
	older := createSession(t, "Older sitting", time.Now().AddDate(0, 0, -14), false)
	createSession(t, "Future sitting", time.Now().AddDate(0, 0, 7), false)

	// first: 2 present; second: 1 present, 1 absent → global 3 of 4 = 75%
	createAttendance(t, first.ID, past.ID, true)
	createAttendance(t, first.ID, older.ID, true)
	createAttendance(t, second.ID, past.ID, true)
	createAttendance(t, second.ID, older.ID, false)

	w := doRequest(t, http.MethodGet, "/api/statistics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalDeputies     int64   `json:"total_deputies"`
		ActiveDeputies    int64   `json:"active_deputies"`
		TotalParties      int64   `json:"total_parties"`
		TotalSessions     int64   `json:"total_sessions"`
		AverageAttendance float64 `json:"average_attendance"`
		UpcomingSessions  int64   `json:"upcoming_sessions"`
		RecentSessions    []struct {
			Title string `json:"title"`
		} `json:"recent_sessions"`
		TopAttendees []struct {
			FullName string `json:"full_name"`
		} `json:"top_attendees"`
	}
	decodeJSON(t, w, &resp)

	assert.Equal(t, int64(3), resp.TotalDeputies)
	assert.Equal(t, int64(2), resp.ActiveDeputies)
	assert.Equal(t, int64(2), resp.TotalParties)
	assert.Equal(t, int64(3), resp.TotalSessions)
	assert.Equal(t, 75.0, resp.AverageAttendance)
	assert.Equal(t, int64(1), resp.UpcomingSessions)

	// most recent past session first, future sessions excluded
	require.Len(t, resp.RecentSessions, 2)
	assert.Equal(t, "Past sitting", resp.RecentSessions[0].Title)
	assert.Equal(t, "Older sitting", resp.RecentSessions[1].Title)

	// ranked by present count
	require.Len(t, resp.TopAttendees, 2)
	assert.Contains(t, resp.TopAttendees[0].FullName, "First")
}

func TestStatisticsEmptyDatabase(t *testing.T) {
	setupTestDB(t)

	w := doRequest(t, http.MethodGet, "/api/statistics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalDeputies     int64         `json:"total_deputies"`
		AverageAttendance float64       `json:"average_attendance"`
		RecentSessions    []interface{} `json:"recent_sessions"`
		TopAttendees      []interface{} `json:"top_attendees"`
	}
	decodeJSON(t, w, &resp)

	assert.Zero(t, resp.TotalDeputies)
	assert.Zero(t, resp.AverageAttendance)
	assert.Empty(t, resp.RecentSessions)
	assert.Empty(t, resp.TopAttendees)
}

func TestStatisticsTopAttendeesLimit(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Crowded sitting", time.Now().AddDate(0, 0, -1), false)

	for i := 0; i < 12; i++ {
		deputy := createDeputy(t, fmt.Sprintf("T%d", i), fmt.Sprintf("Top%d", i), nil, nil)
		createAttendance(t, deputy.ID, session.ID, true)
	}

	// one more with no records: excluded from the ranking
	createDeputy(t, "Empty", "Record", nil, nil)

	w := doRequest(t, http.MethodGet, "/api/statistics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TopAttendees []struct {
			FullName string `json:"full_name"`
		} `json:"top_attendees"`
	}
	decodeJSON(t, w, &resp)
	assert.Len(t, resp.TopAttendees, 10)
}
