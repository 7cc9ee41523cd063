package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/types"
	"github.com/parliament-dev/parliament/internal/utils"
	"gorm.io/gorm"
)

type CreatePartyRequest struct {
	Name        string `json:"name" binding:"required"`
	ShortName   string `json:"short_name"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	FoundedDate string `json:"founded_date"` // "2006-01-02"
	Website     string `json:"website"`
	Color       string `json:"color"`
}

type UpdatePartyRequest struct {
	Name        *string `json:"name"`
	ShortName   *string `json:"short_name"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	FoundedDate *string `json:"founded_date"`
	Website     *string `json:"website"`
	Color       *string `json:"color"`
}

func ListParties(ctx *gin.Context) {
	var parties []models.Party

	if err := db.DB.Order("name").Find(&parties).Error; err != nil {
		log.Printf("Failed to list parties: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parties"})
		return
	}

	counts, err := partyMembersCounts()

	if err != nil {
		log.Printf("Failed to count party members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parties"})
		return
	}

	response := make([]types.PartyResponse, 0, len(parties))

	for _, party := range parties {
		response = append(response, partyResponse(party, counts[party.ID]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetParty(ctx *gin.Context) {
	partyID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var party models.Party

	if err := db.DB.First(&party, partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		}
		return
	}

	count, err := partyMembersCount(party.ID)

	if err != nil {
		log.Printf("Failed to count party members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		return
	}

	ctx.JSON(http.StatusOK, partyResponse(party, count))
}

func CreateParty(ctx *gin.Context) {
	var req CreatePartyRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	foundedDate, err := parseDate(req.FoundedDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid founded_date, expected YYYY-MM-DD"})
		return
	}

	party := models.Party{
		Name:        req.Name,
		ShortName:   req.ShortName,
		Logo:        req.Logo,
		Description: req.Description,
		FoundedDate: foundedDate,
		Website:     req.Website,
		Color:       req.Color,
	}

	if err := db.DB.Create(&party).Error; err != nil {
		log.Printf("Failed to create party: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		return
	}

	// defaults applied by the database
	if err := db.DB.First(&party, party.ID).Error; err != nil {
		log.Printf("Failed to reload party: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		return
	}

	ctx.JSON(http.StatusCreated, partyResponse(party, 0))
}

func UpdateParty(ctx *gin.Context) {
	partyID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var party models.Party

	if err := db.DB.First(&party, partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		}
		return
	}

	var req UpdatePartyRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.ShortName != nil {
		party.ShortName = *req.ShortName
	}
	if req.Logo != nil {
		party.Logo = *req.Logo
	}
	if req.Description != nil {
		party.Description = *req.Description
	}
	if req.FoundedDate != nil {
		foundedDate, err := parseDate(*req.FoundedDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid founded_date, expected YYYY-MM-DD"})
			return
		}
		party.FoundedDate = foundedDate
	}
	if req.Website != nil {
		party.Website = *req.Website
	}
	if req.Color != nil {
		party.Color = *req.Color
	}

	if err := db.DB.Save(&party).Error; err != nil {
		log.Printf("Failed to update party: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		return
	}

	count, err := partyMembersCount(party.ID)

	if err != nil {
		log.Printf("Failed to count party members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		return
	}

	ctx.JSON(http.StatusOK, partyResponse(party, count))
}

// DeleteParty preserves the party's deputies: their party reference is nulled
// in the same transaction.
func DeleteParty(ctx *gin.Context) {
	partyID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var party models.Party

	if err := db.DB.First(&party, partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Deputy{}).Where("party_id = ?", party.ID).Update("party_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&party).Error
	})

	if err != nil {
		log.Printf("Failed to delete party: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete party"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// PartyMembers lists the party's active deputies.
func PartyMembers(ctx *gin.Context) {
	partyID, err := utils.GetParamID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var party models.Party

	if err := db.DB.First(&party, partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		}
		return
	}

	var deputies []models.Deputy

	err = db.DB.Preload("Party").
		Where("party_id = ? AND is_active = ?", party.ID, true).
		Order("last_name, first_name").
		Find(&deputies).Error

	if err != nil {
		log.Printf("Failed to list party members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party members"})
		return
	}

	stats, err := deputyAttendanceStats()

	if err != nil {
		log.Printf("Failed to compute attendance stats: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party members"})
		return
	}

	response := make([]types.DeputySummary, 0, len(deputies))

	for _, deputy := range deputies {
		s := stats[deputy.ID]
		response = append(response, deputySummary(deputy, utils.Rate(s.Present, s.Total)))
	}

	ctx.JSON(http.StatusOK, response)
}
