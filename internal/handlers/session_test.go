package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosedSessionVisibility(t *testing.T) {
	setupTestDB(t)

	open := createSession(t, "Open sitting", time.Now().AddDate(0, 0, -1), false)
	closed := createSession(t, "Closed sitting", time.Now().AddDate(0, 0, -1), true)

	guest := createUser(t, "visitor", "guest")
	admin := createUser(t, "chair", "admin")

	listTitles := func(token string) []string {
		w := doRequest(t, http.MethodGet, "/api/sessions", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var rows []struct {
			Title string `json:"title"`
		}
		decodeJSON(t, w, &rows)

		titles := make([]string, 0, len(rows))
		for _, row := range rows {
			titles = append(titles, row.Title)
		}
		return titles
	}

	assert.ElementsMatch(t, []string{"Open sitting"}, listTitles(""))
	assert.ElementsMatch(t, []string{"Open sitting"}, listTitles(tokenFor(t, guest)))
	assert.ElementsMatch(t, []string{"Open sitting", "Closed sitting"}, listTitles(tokenFor(t, admin)))

	// retrieve follows the same scope
	w := doRequest(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", closed.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", closed.ID), nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", open.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListSessionsFilters(t *testing.T) {
	setupTestDB(t)

	plenary := models.Session{Title: "Plenary", SessionType: "plenary", Date: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}
	committee := models.Session{Title: "Committee", SessionType: "committee", Date: time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)}
	require.NoError(t, db.DB.Create(&plenary).Error)
	require.NoError(t, db.DB.Create(&committee).Error)

	var rows []struct {
		Title string `json:"title"`
	}

	w := doRequest(t, http.MethodGet, "/api/sessions?type=committee", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Committee", rows[0].Title)

	w = doRequest(t, http.MethodGet, "/api/sessions?date_from=2026-04-01", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Committee", rows[0].Title)

	w = doRequest(t, http.MethodGet, "/api/sessions?date_from=2026-03-01&date_to=2026-04-01", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Plenary", rows[0].Title)
}

// 4 active deputies, 3 present: the session rate divides by the active deputy
// count, not by the session's attendance rows.
func TestSessionAttendanceRate(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Quorum check", time.Now().AddDate(0, 0, -1), false)

	deputies := make([]models.Deputy, 4)
	for i := range deputies {
		deputies[i] = createDeputy(t, fmt.Sprintf("D%d", i), fmt.Sprintf("Deputy%d", i), nil, nil)
	}

	for i := 0; i < 3; i++ {
		createAttendance(t, deputies[i].ID, session.ID, true)
	}

	w := doRequest(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", session.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		AttendanceRate float64 `json:"attendance_rate"`
		Attendances    []struct {
			DeputyName string `json:"deputy_name"`
		} `json:"attendances"`
	}
	decodeJSON(t, w, &detail)
	assert.Equal(t, 75.0, detail.AttendanceRate)
	assert.Len(t, detail.Attendances, 3)
}

func TestMarkAttendance(t *testing.T) {
	setupTestDB(t)

	session := createSession(t, "Roll call", time.Now(), false)
	deputy := createDeputy(t, "Mark", "Marked", nil, nil)

	guest := createUser(t, "visitor", "guest")
	marker := createUser(t, "secretary", "admin")

	path := fmt.Sprintf("/api/sessions/%d/mark_attendance", session.ID)

	t.Run("guest forbidden", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]interface{}{"deputy_id": deputy.ID}, tokenFor(t, guest))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown deputy", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]interface{}{"deputy_id": 9999}, tokenFor(t, marker))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("upsert is idempotent", func(t *testing.T) {
		body := map[string]interface{}{"deputy_id": deputy.ID, "is_present": true}

		for i := 0; i < 2; i++ {
			w := doRequest(t, http.MethodPost, path, body, tokenFor(t, marker))
			require.Equal(t, http.StatusOK, w.Code)
		}

		var rows []models.Attendance
		require.NoError(t, db.DB.Where("deputy_id = ? AND session_id = ?", deputy.ID, session.ID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].IsPresent)
	})

	t.Run("re-marking overwrites", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]interface{}{
			"deputy_id":      deputy.ID,
			"is_present":     false,
			"absence_reason": "sick leave",
		}, tokenFor(t, marker))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			IsPresent     bool   `json:"is_present"`
			AbsenceReason string `json:"absence_reason"`
		}
		decodeJSON(t, w, &resp)
		assert.False(t, resp.IsPresent)
		assert.Equal(t, "sick leave", resp.AbsenceReason)

		var count int64
		require.NoError(t, db.DB.Model(&models.Attendance{}).
			Where("deputy_id = ? AND session_id = ?", deputy.ID, session.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("is_present defaults to true", func(t *testing.T) {
		other := createDeputy(t, "Default", "Defaulted", nil, nil)

		w := doRequest(t, http.MethodPost, path, map[string]interface{}{"deputy_id": other.ID}, tokenFor(t, marker))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			IsPresent bool `json:"is_present"`
		}
		decodeJSON(t, w, &resp)
		assert.True(t, resp.IsPresent)
	})
}

// A second row for the same (deputy, session) pair must be rejected by the
// storage layer.
func TestAttendanceUniqueConstraint(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Sitting", time.Now(), false)
	deputy := createDeputy(t, "Uma", "Unique", nil, nil)

	createAttendance(t, deputy.ID, session.ID, true)

	duplicate := models.Attendance{DeputyID: deputy.ID, SessionID: session.ID, IsPresent: false}
	assert.Error(t, db.DB.Create(&duplicate).Error)
}

func TestDeleteSessionCascades(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "admin", "admin")

	session := createSession(t, "Doomed", time.Now().AddDate(0, 0, -1), false)
	deputy := createDeputy(t, "Sasha", "Sitting", nil, nil)
	vote := createVote(t, session.ID, "Motion")

	createAttendance(t, deputy.ID, session.ID, true)
	require.NoError(t, db.DB.Create(&models.DeputyVote{VoteID: vote.ID, DeputyID: deputy.ID, Choice: "for"}).Error)

	w := doRequest(t, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", session.ID), nil, tokenFor(t, admin))
	require.Equal(t, http.StatusNoContent, w.Code)

	var attendances, votes, deputyVotes int64
	require.NoError(t, db.DB.Model(&models.Attendance{}).Where("session_id = ?", session.ID).Count(&attendances).Error)
	require.NoError(t, db.DB.Model(&models.Vote{}).Where("session_id = ?", session.ID).Count(&votes).Error)
	require.NoError(t, db.DB.Model(&models.DeputyVote{}).Where("vote_id = ?", vote.ID).Count(&deputyVotes).Error)
	assert.Zero(t, attendances)
	assert.Zero(t, votes)
	assert.Zero(t, deputyVotes)
}

func TestCreateSessionDefaults(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "scheduler", "admin")

	w := doRequest(t, http.MethodPost, "/api/sessions", map[string]interface{}{
		"title": "First sitting",
		"date":  time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
	}, tokenFor(t, user))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		SessionType     string `json:"session_type"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "plenary", resp.SessionType)
	assert.Equal(t, 60, resp.DurationMinutes)
}
