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

func TestVoteResultsTally(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Sitting", time.Now().AddDate(0, 0, -1), false)
	vote := createVote(t, session.ID, "Land reform")

	choices := []string{"for", "for", "against", "abstain", "for"}

	for i, choice := range choices {
		deputy := createDeputy(t, fmt.Sprintf("V%d", i), fmt.Sprintf("Voter%d", i), nil, nil)
		require.NoError(t, db.DB.Create(&models.DeputyVote{VoteID: vote.ID, DeputyID: deputy.ID, Choice: choice}).Error)
	}

	w := doRequest(t, http.MethodGet, fmt.Sprintf("/api/votes/%d", vote.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results struct {
			For     int64 `json:"for"`
			Against int64 `json:"against"`
			Abstain int64 `json:"abstain"`
			Total   int64 `json:"total"`
		} `json:"results"`
		DeputyVotes []struct {
			Choice string `json:"choice"`
		} `json:"deputy_votes"`
	}
	decodeJSON(t, w, &resp)

	assert.Equal(t, int64(3), resp.Results.For)
	assert.Equal(t, int64(1), resp.Results.Against)
	assert.Equal(t, int64(1), resp.Results.Abstain)
	assert.Equal(t, int64(5), resp.Results.Total)
	assert.Equal(t, resp.Results.For+resp.Results.Against+resp.Results.Abstain, resp.Results.Total)
	assert.Len(t, resp.DeputyVotes, 5)
}

func TestListVotesActiveOnly(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Sitting", time.Now().AddDate(0, 0, -1), false)

	createVote(t, session.ID, "Visible")
	retired := createVote(t, session.ID, "Retired")
	deactivate(t, &retired)

	w := doRequest(t, http.MethodGet, "/api/votes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		Title string `json:"title"`
	}
	decodeJSON(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Visible", rows[0].Title)

	w = doRequest(t, http.MethodGet, fmt.Sprintf("/api/votes/%d", retired.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCastVote(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Sitting", time.Now().AddDate(0, 0, -1), false)
	vote := createVote(t, session.ID, "Tax bill")

	guest := createUser(t, "visitor", "guest")
	voterUser := createUser(t, "voter", "deputy")
	orphanUser := createUser(t, "orphan", "deputy") // deputy role, no profile
	deputy := createDeputy(t, "Vlad", "Voting", nil, &voterUser.ID)

	path := fmt.Sprintf("/api/votes/%d/cast_vote", vote.ID)

	t.Run("guest forbidden", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]string{"choice": "for"}, tokenFor(t, guest))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin forbidden", func(t *testing.T) {
		admin := createUser(t, "chair", "admin")
		w := doRequest(t, http.MethodPost, path, map[string]string{"choice": "for"}, tokenFor(t, admin))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid choice", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]string{"choice": "maybe"}, tokenFor(t, voterUser))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing deputy profile", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]string{"choice": "for"}, tokenFor(t, orphanUser))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("re-voting overwrites", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, path, map[string]string{"choice": "for"}, tokenFor(t, voterUser))
		require.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, http.MethodPost, path, map[string]string{"choice": "against"}, tokenFor(t, voterUser))
		require.Equal(t, http.StatusOK, w.Code)

		var rows []models.DeputyVote
		require.NoError(t, db.DB.Where("vote_id = ? AND deputy_id = ?", vote.ID, deputy.ID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, "against", rows[0].Choice)
	})
}

func TestCreateVoteValidatesSession(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "author", "admin")

	w := doRequest(t, http.MethodPost, "/api/votes", map[string]interface{}{
		"session": 12345,
		"title":   "Ghost motion",
	}, tokenFor(t, user))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	session := createSession(t, "Sitting", time.Now(), false)

	w = doRequest(t, http.MethodPost, "/api/votes", map[string]interface{}{
		"session": session.ID,
		"title":   "Real motion",
	}, tokenFor(t, user))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Title    string `json:"title"`
		IsActive bool   `json:"is_active"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Real motion", resp.Title)
	assert.True(t, resp.IsActive)
}

// A second ballot for the same (vote, deputy) pair must be rejected by the
// storage layer.
func TestDeputyVoteUniqueConstraint(t *testing.T) {
	setupTestDB(t)
	session := createSession(t, "Sitting", time.Now(), false)
	vote := createVote(t, session.ID, "Motion")
	deputy := createDeputy(t, "Two", "Timer", nil, nil)

	require.NoError(t, db.DB.Create(&models.DeputyVote{VoteID: vote.ID, DeputyID: deputy.ID, Choice: "for"}).Error)

	duplicate := models.DeputyVote{VoteID: vote.ID, DeputyID: deputy.ID, Choice: "against"}
	assert.Error(t, db.DB.Create(&duplicate).Error)
}
