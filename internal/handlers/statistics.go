package handlers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/types"
	"github.com/parliament-dev/parliament/internal/utils"
)

const (
	recentSessionsLimit = 5
	topAttendeesLimit   = 10
)

// GetStatistics returns the aggregate snapshot for the landing dashboard.
// Every figure is recomputed from current rows on each request.
func GetStatistics(ctx *gin.Context) {
	var stats types.StatisticsResponse

	countQueries := []func() error{
		func() error { return db.DB.Model(&models.Deputy{}).Count(&stats.TotalDeputies).Error },
		func() error {
			return db.DB.Model(&models.Deputy{}).Where("is_active = ?", true).Count(&stats.ActiveDeputies).Error
		},
		func() error { return db.DB.Model(&models.Party{}).Count(&stats.TotalParties).Error },
		func() error { return db.DB.Model(&models.Session{}).Count(&stats.TotalSessions).Error },
	}

	for _, countQuery := range countQueries {
		if err := countQuery(); err != nil {
			log.Printf("Failed to compute statistics: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
	}

	// Average attendance is the plain global ratio of present rows to all
	// attendance rows.
	var totalAttendance, presentAttendance int64

	if err := db.DB.Model(&models.Attendance{}).Count(&totalAttendance).Error; err != nil {
		log.Printf("Failed to count attendance: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	if err := db.DB.Model(&models.Attendance{}).Where("is_present = ?", true).Count(&presentAttendance).Error; err != nil {
		log.Printf("Failed to count attendance: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	stats.AverageAttendance = utils.Rate(presentAttendance, totalAttendance)

	now := time.Now()

	if err := db.DB.Model(&models.Session{}).Where("date > ?", now).Count(&stats.UpcomingSessions).Error; err != nil {
		log.Printf("Failed to count upcoming sessions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	var recentSessions []models.Session

	err := db.DB.Where("date <= ?", now).
		Order("date DESC").
		Limit(recentSessionsLimit).
		Find(&recentSessions).Error

	if err != nil {
		log.Printf("Failed to list recent sessions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	if stats.RecentSessions, err = sessionSummaries(recentSessions); err != nil {
		log.Printf("Failed to compute session rates: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	if stats.TopAttendees, err = topAttendees(); err != nil {
		log.Printf("Failed to compute top attendees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// topAttendees ranks active deputies by present-count among those with at
// least one attendance record.
func topAttendees() ([]types.DeputySummary, error) {
	allStats, err := deputyAttendanceStats()

	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(allStats))

	for deputyID, s := range allStats {
		if s.Total > 0 {
			ids = append(ids, deputyID)
		}
	}

	summaries := make([]types.DeputySummary, 0, topAttendeesLimit)

	if len(ids) == 0 {
		return summaries, nil
	}

	var deputies []models.Deputy

	err = db.DB.Preload("Party").
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&deputies).Error

	if err != nil {
		return nil, err
	}

	sort.Slice(deputies, func(i, j int) bool {
		return allStats[deputies[i].ID].Present > allStats[deputies[j].ID].Present
	})

	if len(deputies) > topAttendeesLimit {
		deputies = deputies[:topAttendeesLimit]
	}

	for _, deputy := range deputies {
		s := allStats[deputy.ID]
		summaries = append(summaries, deputySummary(deputy, utils.Rate(s.Present, s.Total)))
	}

	return summaries, nil
}
