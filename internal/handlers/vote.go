package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/permissions"
	"github.com/parliament-dev/parliament/internal/types"
	"github.com/parliament-dev/parliament/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateVoteRequest struct {
	SessionID   uint   `json:"session" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateVoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type CastVoteRequest struct {
	Choice string `json:"choice" binding:"required"`
}

// activeVotes is the base scope for every vote endpoint.
func activeVotes() *gorm.DB {
	return db.DB.Where("votes.is_active = ?", true)
}

func findActiveVote(ctx *gin.Context, preload bool) (models.Vote, bool) {
	var vote models.Vote

	voteID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return vote, false
	}

	query := activeVotes()

	if preload {
		query = query.Preload("DeputyVotes.Deputy")
	}

	if err := query.First(&vote, voteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Vote not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vote"})
		}
		return vote, false
	}

	return vote, true
}

func ListVotes(ctx *gin.Context) {
	var votes []models.Vote

	err := activeVotes().Preload("DeputyVotes.Deputy").Order("created_at DESC").Find(&votes).Error

	if err != nil {
		log.Printf("Failed to list votes: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve votes"})
		return
	}

	response := make([]types.VoteResponse, 0, len(votes))

	for _, vote := range votes {
		response = append(response, voteResponse(vote))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetVote(ctx *gin.Context) {
	vote, ok := findActiveVote(ctx, true)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, voteResponse(vote))
}

func CreateVote(ctx *gin.Context) {
	var req CreateVoteRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var session models.Session

	if err := db.DB.First(&session, req.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	vote := models.Vote{
		SessionID:   session.ID,
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}

	if err := db.DB.Create(&vote).Error; err != nil {
		log.Printf("Failed to create vote: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vote"})
		return
	}

	ctx.JSON(http.StatusCreated, voteResponse(vote))
}

func UpdateVote(ctx *gin.Context) {
	vote, ok := findActiveVote(ctx, false)

	if !ok {
		return
	}

	var req UpdateVoteRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title != nil {
		vote.Title = *req.Title
	}
	if req.Description != nil {
		vote.Description = *req.Description
	}
	if req.IsActive != nil {
		vote.IsActive = *req.IsActive
	}

	if err := db.DB.Save(&vote).Error; err != nil {
		log.Printf("Failed to update vote: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
		return
	}

	if err := db.DB.Preload("DeputyVotes.Deputy").First(&vote, vote.ID).Error; err != nil {
		log.Printf("Failed to reload vote: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vote"})
		return
	}

	ctx.JSON(http.StatusOK, voteResponse(vote))
}

func DeleteVote(ctx *gin.Context) {
	vote, ok := findActiveVote(ctx, false)

	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vote_id = ?", vote.ID).Delete(&models.DeputyVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&vote).Error
	})

	if err != nil {
		log.Printf("Failed to delete vote: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vote"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CastVote records the requester's choice on a roll-call vote. Only users
// with the deputy role and a linked deputy profile may vote; re-voting
// overwrites the prior choice.
func CastVote(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !permissions.Allowed(permissions.ActionCastVote, currentUser.Role) {
		ctx.JSON(http.StatusForbidden, gin.H{"detail": "Only deputies can vote"})
		return
	}

	vote, ok := findActiveVote(ctx, false)

	if !ok {
		return
	}

	var req CastVoteRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	switch req.Choice {
	case types.ChoiceFor, types.ChoiceAgainst, types.ChoiceAbstain:
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote choice"})
		return
	}

	var deputy models.Deputy

	if err := db.DB.Where("user_id = ?", currentUser.ID).First(&deputy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"detail": "Deputy profile not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deputy profile"})
		}
		return
	}

	deputyVote := models.DeputyVote{
		VoteID:   vote.ID,
		DeputyID: deputy.ID,
		Choice:   req.Choice,
	}

	// Atomic upsert on the (vote, deputy) unique pair.
	err = db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vote_id"}, {Name: "deputy_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"choice", "updated_at"}),
	}).Create(&deputyVote).Error

	if err != nil {
		log.Printf("Failed to upsert deputy vote: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		return
	}

	if err := db.DB.Preload("Deputy").
		Where("vote_id = ? AND deputy_id = ?", vote.ID, deputy.ID).
		First(&deputyVote).Error; err != nil {
		log.Printf("Failed to reload deputy vote: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		return
	}

	ctx.JSON(http.StatusOK, deputyVoteResponse(deputyVote))
}
