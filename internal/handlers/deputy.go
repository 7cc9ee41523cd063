package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/permissions"
	"github.com/parliament-dev/parliament/internal/types"
	"github.com/parliament-dev/parliament/internal/utils"
	"gorm.io/gorm"
)

type CreateDeputyRequest struct {
	UserID       *uint  `json:"user_id"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	MiddleName   string `json:"middle_name"`
	PartyID      *uint  `json:"party_id"`
	Photo        string `json:"photo"`
	BirthDate    string `json:"birth_date"`
	ElectionDate string `json:"election_date" binding:"required"` // "2006-01-02"
	District     string `json:"district" binding:"required"`
	Biography    string `json:"biography"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
}

type UpdateDeputyRequest struct {
	UserID       *uint   `json:"user_id"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	MiddleName   *string `json:"middle_name"`
	PartyID      *uint   `json:"party_id"`
	Photo        *string `json:"photo"`
	BirthDate    *string `json:"birth_date"`
	ElectionDate *string `json:"election_date"`
	District     *string `json:"district"`
	Biography    *string `json:"biography"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	IsActive     *bool   `json:"is_active"`
}

// activeDeputies is the base scope for every deputy endpoint: inactive
// deputies are invisible to the API.
func activeDeputies() *gorm.DB {
	return db.DB.Where("deputies.is_active = ?", true)
}

func findActiveDeputy(ctx *gin.Context, preloadParty bool) (models.Deputy, bool) {
	var deputy models.Deputy

	deputyID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return deputy, false
	}

	query := activeDeputies()

	if preloadParty {
		query = query.Preload("Party")
	}

	if err := query.First(&deputy, deputyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Deputy not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
		}
		return deputy, false
	}

	return deputy, true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-insensitive substring pattern, treating LIKE
// wildcards in the user input as literals.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// ListDeputies supports filtering by party and a case-insensitive substring
// search across the name parts and district.
func ListDeputies(ctx *gin.Context) {
	query := activeDeputies().Preload("Party").Order("last_name, first_name")

	if partyID := ctx.Query("party"); partyID != "" {
		query = query.Where("party_id = ?", partyID)
	}

	if search := ctx.Query("search"); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			"LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\' OR LOWER(middle_name) LIKE ? ESCAPE '\\' OR LOWER(district) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern,
		)
	}

	var deputies []models.Deputy

	if err := query.Find(&deputies).Error; err != nil {
		log.Printf("Failed to list deputies: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputies"})
		return
	}

	stats, err := deputyAttendanceStats()

	if err != nil {
		log.Printf("Failed to compute attendance stats: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputies"})
		return
	}

	response := make([]types.DeputySummary, 0, len(deputies))

	for _, deputy := range deputies {
		s := stats[deputy.ID]
		response = append(response, deputySummary(deputy, utils.Rate(s.Present, s.Total)))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetDeputy(ctx *gin.Context) {
	deputy, ok := findActiveDeputy(ctx, true)

	if !ok {
		return
	}

	rate, err := deputyAttendanceRate(deputy.ID)

	if err != nil {
		log.Printf("Failed to compute attendance rate: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
		return
	}

	var partyMembers int64

	if deputy.PartyID != nil {
		if partyMembers, err = partyMembersCount(*deputy.PartyID); err != nil {
			log.Printf("Failed to count party members: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
			return
		}
	}

	ctx.JSON(http.StatusOK, deputyDetail(deputy, rate, partyMembers))
}

func CreateDeputy(ctx *gin.Context) {
	var req CreateDeputyRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	electionDate, err := parseDate(req.ElectionDate)

	if err != nil || electionDate == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election_date, expected YYYY-MM-DD"})
		return
	}

	birthDate, err := parseDate(req.BirthDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date, expected YYYY-MM-DD"})
		return
	}

	deputy := models.Deputy{
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MiddleName:   req.MiddleName,
		PartyID:      req.PartyID,
		Photo:        req.Photo,
		BirthDate:    birthDate,
		ElectionDate: *electionDate,
		District:     req.District,
		Biography:    req.Biography,
		Email:        req.Email,
		Phone:        req.Phone,
		IsActive:     true,
	}

	if err := db.DB.Create(&deputy).Error; err != nil {
		log.Printf("Failed to create deputy: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deputy"})
		return
	}

	var partyMembers int64

	if deputy.PartyID != nil {
		if err := db.DB.Preload("Party").First(&deputy, deputy.ID).Error; err != nil {
			log.Printf("Failed to reload deputy: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
			return
		}

		if partyMembers, err = partyMembersCount(*deputy.PartyID); err != nil {
			log.Printf("Failed to count party members: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
			return
		}
	}

	ctx.JSON(http.StatusCreated, deputyDetail(deputy, 0, partyMembers))
}

func UpdateDeputy(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	deputy, ok := findActiveDeputy(ctx, false)

	if !ok {
		return
	}

	if !permissions.CanMutateDeputy(currentUser.Role, currentUser.ID, deputy) {
		ctx.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action"})
		return
	}

	var req UpdateDeputyRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.UserID != nil {
		deputy.UserID = req.UserID
	}
	if req.FirstName != nil {
		deputy.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		deputy.LastName = *req.LastName
	}
	if req.MiddleName != nil {
		deputy.MiddleName = *req.MiddleName
	}
	if req.PartyID != nil {
		deputy.PartyID = req.PartyID
	}
	if req.Photo != nil {
		deputy.Photo = *req.Photo
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date, expected YYYY-MM-DD"})
			return
		}
		deputy.BirthDate = birthDate
	}
	if req.ElectionDate != nil {
		electionDate, err := parseDate(*req.ElectionDate)
		if err != nil || electionDate == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election_date, expected YYYY-MM-DD"})
			return
		}
		deputy.ElectionDate = *electionDate
	}
	if req.District != nil {
		deputy.District = *req.District
	}
	if req.Biography != nil {
		deputy.Biography = *req.Biography
	}
	if req.Email != nil {
		deputy.Email = *req.Email
	}
	if req.Phone != nil {
		deputy.Phone = *req.Phone
	}
	if req.IsActive != nil {
		deputy.IsActive = *req.IsActive
	}

	if err := db.DB.Save(&deputy).Error; err != nil {
		log.Printf("Failed to update deputy: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deputy"})
		return
	}

	if err := db.DB.Preload("Party").First(&deputy, deputy.ID).Error; err != nil {
		log.Printf("Failed to reload deputy: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
		return
	}

	rate, err := deputyAttendanceRate(deputy.ID)

	if err != nil {
		log.Printf("Failed to compute attendance rate: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
		return
	}

	var partyMembers int64

	if deputy.PartyID != nil {
		if partyMembers, err = partyMembersCount(*deputy.PartyID); err != nil {
			log.Printf("Failed to count party members: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy"})
			return
		}
	}

	ctx.JSON(http.StatusOK, deputyDetail(deputy, rate, partyMembers))
}

// DeleteDeputy removes the deputy together with its attendance and vote rows.
func DeleteDeputy(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	deputy, ok := findActiveDeputy(ctx, false)

	if !ok {
		return
	}

	if !permissions.CanMutateDeputy(currentUser.Role, currentUser.ID, deputy) {
		ctx.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deputy_id = ?", deputy.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deputy_id = ?", deputy.ID).Delete(&models.DeputyVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&deputy).Error
	})

	if err != nil {
		log.Printf("Failed to delete deputy: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete deputy"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeputyAttendance lists every attendance row for the deputy, enriched with
// the session title.
func DeputyAttendance(ctx *gin.Context) {
	deputy, ok := findActiveDeputy(ctx, false)

	if !ok {
		return
	}

	var attendances []models.Attendance

	err := db.DB.Preload("Deputy").Preload("Session").
		Where("deputy_id = ?", deputy.ID).
		Order("session_id").
		Find(&attendances).Error

	if err != nil {
		log.Printf("Failed to list attendance: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attendance"})
		return
	}

	response := make([]types.AttendanceResponse, 0, len(attendances))

	for _, attendance := range attendances {
		response = append(response, attendanceResponse(attendance))
	}

	ctx.JSON(http.StatusOK, response)
}

func DeputyVotes(ctx *gin.Context) {
	deputy, ok := findActiveDeputy(ctx, false)

	if !ok {
		return
	}

	var deputyVotes []models.DeputyVote

	err := db.DB.Preload("Deputy").
		Where("deputy_id = ?", deputy.ID).
		Order("created_at DESC").
		Find(&deputyVotes).Error

	if err != nil {
		log.Printf("Failed to list deputy votes: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve votes"})
		return
	}

	response := make([]types.DeputyVoteResponse, 0, len(deputyVotes))

	for _, deputyVote := range deputyVotes {
		response = append(response, deputyVoteResponse(deputyVote))
	}

	ctx.JSON(http.StatusOK, response)
}
