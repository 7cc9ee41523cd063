package handlers

import (
	"github.com/parliament-dev/parliament/db"
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/utils"
)

type attendanceStats struct {
	DeputyID uint
	Present  int64
	Total    int64
}

// deputyAttendanceStats returns present/total counts per deputy in a single
// grouped query. With no ids it covers every deputy with attendance records.
func deputyAttendanceStats(deputyIDs ...uint) (map[uint]attendanceStats, error) {
	query := db.DB.Model(&models.Attendance{}).
		Select("deputy_id, SUM(CASE WHEN is_present THEN 1 ELSE 0 END) AS present, COUNT(*) AS total").
		Group("deputy_id")

	if len(deputyIDs) > 0 {
		query = query.Where("deputy_id IN ?", deputyIDs)
	}

	var rows []attendanceStats

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[uint]attendanceStats, len(rows))

	for _, row := range rows {
		stats[row.DeputyID] = row
	}

	return stats, nil
}

func deputyAttendanceRate(deputyID uint) (float64, error) {
	stats, err := deputyAttendanceStats(deputyID)

	if err != nil {
		return 0, err
	}

	s := stats[deputyID]

	return utils.Rate(s.Present, s.Total), nil
}

// sessionPresentCounts returns the number of present attendance rows per
// session. The session rate divides by the count of active deputies, not by
// the session's own row count.
func sessionPresentCounts(sessionIDs ...uint) (map[uint]int64, error) {
	query := db.DB.Model(&models.Attendance{}).
		Select("session_id, COUNT(*) AS present").
		Where("is_present = ?", true).
		Group("session_id")

	if len(sessionIDs) > 0 {
		query = query.Where("session_id IN ?", sessionIDs)
	}

	var rows []struct {
		SessionID uint
		Present   int64
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))

	for _, row := range rows {
		counts[row.SessionID] = row.Present
	}

	return counts, nil
}

func activeDeputyCount() (int64, error) {
	var count int64

	err := db.DB.Model(&models.Deputy{}).Where("is_active = ?", true).Count(&count).Error

	return count, err
}

func sessionAttendanceRate(sessionID uint) (float64, error) {
	activeDeputies, err := activeDeputyCount()

	if err != nil {
		return 0, err
	}

	counts, err := sessionPresentCounts(sessionID)

	if err != nil {
		return 0, err
	}

	return utils.Rate(counts[sessionID], activeDeputies), nil
}

func partyMembersCount(partyID uint) (int64, error) {
	var count int64

	err := db.DB.Model(&models.Deputy{}).Where("party_id = ?", partyID).Count(&count).Error

	return count, err
}

// partyMembersCounts returns deputy counts per party in one grouped query.
func partyMembersCounts() (map[uint]int64, error) {
	var rows []struct {
		PartyID uint
		Members int64
	}

	err := db.DB.Model(&models.Deputy{}).
		Select("party_id, COUNT(*) AS members").
		Where("party_id IS NOT NULL").
		Group("party_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))

	for _, row := range rows {
		counts[row.PartyID] = row.Members
	}

	return counts, nil
}
