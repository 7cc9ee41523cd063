package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/permissions"
	"github.com/parliament-dev/parliament/internal/types"
	"github.com/parliament-dev/parliament/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateSessionRequest struct {
	Title           string    `json:"title" binding:"required"`
	SessionType     string    `json:"session_type" binding:"omitempty,oneof=plenary committee working_group extraordinary"`
	Date            time.Time `json:"date" binding:"required"`
	Agenda          string    `json:"agenda"`
	Location        string    `json:"location"`
	DurationMinutes int       `json:"duration_minutes"`
	Documents       string    `json:"documents"`
	IsClosed        bool      `json:"is_closed"`
}

type UpdateSessionRequest struct {
	Title           *string    `json:"title"`
	SessionType     *string    `json:"session_type" binding:"omitempty,oneof=plenary committee working_group extraordinary"`
	Date            *time.Time `json:"date"`
	Agenda          *string    `json:"agenda"`
	Location        *string    `json:"location"`
	DurationMinutes *int       `json:"duration_minutes"`
	Documents       *string    `json:"documents"`
	IsClosed        *bool      `json:"is_closed"`
}

type MarkAttendanceRequest struct {
	DeputyID      uint   `json:"deputy_id" binding:"required"`
	IsPresent     *bool  `json:"is_present"`
	AbsenceReason string `json:"absence_reason"`
}

// scopedSessions hides closed sessions from anonymous requesters and guests.
func scopedSessions(ctx *gin.Context) *gorm.DB {
	role, authenticated := utils.RequesterRole(ctx)

	query := db.DB.Model(&models.Session{})

	if !permissions.CanSeeClosedSessions(authenticated, role) {
		query = query.Where("is_closed = ?", false)
	}

	return query
}

func ListSessions(ctx *gin.Context) {
	query := scopedSessions(ctx).Order("date DESC")

	if sessionType := ctx.Query("type"); sessionType != "" {
		query = query.Where("session_type = ?", sessionType)
	}

	if dateFrom := ctx.Query("date_from"); dateFrom != "" {
		from, err := parseDate(dateFrom)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date >= ?", *from)
	}

	if dateTo := ctx.Query("date_to"); dateTo != "" {
		to, err := parseDate(dateTo)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date <= ?", *to)
	}

	var sessions []models.Session

	if err := query.Find(&sessions).Error; err != nil {
		log.Printf("Failed to list sessions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sessions"})
		return
	}

	response, err := sessionSummaries(sessions)

	if err != nil {
		log.Printf("Failed to compute session rates: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sessions"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func sessionSummaries(sessions []models.Session) ([]types.SessionSummary, error) {
	activeDeputiesCount, err := activeDeputyCount()

	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(sessions))

	for _, session := range sessions {
		ids = append(ids, session.ID)
	}

	counts := map[uint]int64{}

	if len(ids) > 0 {
		if counts, err = sessionPresentCounts(ids...); err != nil {
			return nil, err
		}
	}

	response := make([]types.SessionSummary, 0, len(sessions))

	for _, session := range sessions {
		response = append(response, sessionSummary(session, utils.Rate(counts[session.ID], activeDeputiesCount)))
	}

	return response, nil
}

func findScopedSession(ctx *gin.Context, preload bool) (models.Session, bool) {
	var session models.Session

	sessionID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return session, false
	}

	query := scopedSessions(ctx)

	if preload {
		query = query.Preload("Attendances.Deputy")
	}

	if err := query.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return session, false
	}

	return session, true
}

func GetSession(ctx *gin.Context) {
	session, ok := findScopedSession(ctx, true)

	if !ok {
		return
	}

	rate, err := sessionAttendanceRate(session.ID)

	if err != nil {
		log.Printf("Failed to compute session rate: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		return
	}

	ctx.JSON(http.StatusOK, sessionDetail(session, rate))
}

func CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session := models.Session{
		Title:           req.Title,
		SessionType:     req.SessionType,
		Date:            req.Date,
		Agenda:          req.Agenda,
		Location:        req.Location,
		DurationMinutes: req.DurationMinutes,
		Documents:       req.Documents,
		IsClosed:        req.IsClosed,
	}

	if err := db.DB.Create(&session).Error; err != nil {
		log.Printf("Failed to create session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	// defaults applied by the database
	if err := db.DB.First(&session, session.ID).Error; err != nil {
		log.Printf("Failed to reload session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		return
	}

	ctx.JSON(http.StatusCreated, sessionDetail(session, 0))
}

func UpdateSession(ctx *gin.Context) {
	session, ok := findScopedSession(ctx, false)

	if !ok {
		return
	}

	var req UpdateSessionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.SessionType != nil {
		session.SessionType = *req.SessionType
	}
	if req.Date != nil {
		session.Date = *req.Date
	}
	if req.Agenda != nil {
		session.Agenda = *req.Agenda
	}
	if req.Location != nil {
		session.Location = *req.Location
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = *req.DurationMinutes
	}
	if req.Documents != nil {
		session.Documents = *req.Documents
	}
	if req.IsClosed != nil {
		session.IsClosed = *req.IsClosed
	}

	if err := db.DB.Save(&session).Error; err != nil {
		log.Printf("Failed to update session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		return
	}

	rate, err := sessionAttendanceRate(session.ID)

	if err != nil {
		log.Printf("Failed to compute session rate: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		return
	}

	if err := db.DB.Preload("Attendances.Deputy").First(&session, session.ID).Error; err != nil {
		log.Printf("Failed to reload session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		return
	}

	ctx.JSON(http.StatusOK, sessionDetail(session, rate))
}

// DeleteSession cascades to the session's attendance rows, votes and the
// votes' ballots in one transaction.
func DeleteSession(ctx *gin.Context) {
	session, ok := findScopedSession(ctx, false)

	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		voteIDs := tx.Model(&models.Vote{}).Select("id").Where("session_id = ?", session.ID)

		if err := tx.Where("vote_id IN (?)", voteIDs).Delete(&models.DeputyVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})

	if err != nil {
		log.Printf("Failed to delete session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// MarkAttendance upserts the deputy's attendance record for the session.
// Restricted to deputies and admins; re-marking overwrites the prior record.
func MarkAttendance(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !permissions.Allowed(permissions.ActionMarkAttendance, currentUser.Role) {
		ctx.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action"})
		return
	}

	session, ok := findScopedSession(ctx, false)

	if !ok {
		return
	}

	var req MarkAttendanceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	isPresent := true

	if req.IsPresent != nil {
		isPresent = *req.IsPresent
	}

	var deputy models.Deputy

	if err := db.DB.First(&deputy, req.DeputyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"detail": "Deputy not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
		}
		return
	}

	attendance := models.Attendance{
		DeputyID:      deputy.ID,
		SessionID:     session.ID,
		IsPresent:     isPresent,
		AbsenceReason: req.AbsenceReason,
	}

	// Atomic upsert on the (deputy, session) unique pair: concurrent calls
	// must never produce duplicate rows.
	err = db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "deputy_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_present", "absence_reason", "updated_at"}),
	}).Create(&attendance).Error

	if err != nil {
		log.Printf("Failed to upsert attendance: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}

	if err := db.DB.Preload("Deputy").Preload("Session").
		Where("deputy_id = ? AND session_id = ?", deputy.ID, session.ID).
		First(&attendance).Error; err != nil {
		log.Printf("Failed to reload attendance: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}

	ctx.JSON(http.StatusOK, attendanceResponse(attendance))
}
