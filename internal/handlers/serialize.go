package handlers

import (
	"time"

	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/types"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func partyResponse(party models.Party, membersCount int64) types.PartyResponse {
	var foundedYear *int

	if party.FoundedDate != nil {
		year := party.FoundedDate.Year()
		foundedYear = &year
	}

	return types.PartyResponse{
		ID:           party.ID,
		Name:         party.Name,
		ShortName:    party.ShortName,
		Logo:         party.Logo,
		Description:  party.Description,
		FoundedDate:  formatDate(party.FoundedDate),
		FoundedYear:  foundedYear,
		Website:      party.Website,
		Color:        party.Color,
		MembersCount: membersCount,
	}
}

// deputySummary expects deputy.Party preloaded when the deputy has a party.
func deputySummary(deputy models.Deputy, rate float64) types.DeputySummary {
	summary := types.DeputySummary{
		ID:             deputy.ID,
		FullName:       deputy.FullName(),
		Photo:          deputy.Photo,
		PartyID:        deputy.PartyID,
		District:       deputy.District,
		AttendanceRate: rate,
		IsActive:       deputy.IsActive,
	}

	if deputy.Party != nil {
		summary.PartyName = deputy.Party.Name
		summary.PartyColor = deputy.Party.Color
	}

	return summary
}

func deputyDetail(deputy models.Deputy, rate float64, partyMembers int64) types.DeputyDetail {
	detail := types.DeputyDetail{
		ID:             deputy.ID,
		FirstName:      deputy.FirstName,
		LastName:       deputy.LastName,
		MiddleName:     deputy.MiddleName,
		FullName:       deputy.FullName(),
		Photo:          deputy.Photo,
		BirthDate:      formatDate(deputy.BirthDate),
		ElectionDate:   deputy.ElectionDate.Format(dateLayout),
		District:       deputy.District,
		Biography:      deputy.Biography,
		Email:          deputy.Email,
		Phone:          deputy.Phone,
		IsActive:       deputy.IsActive,
		AttendanceRate: rate,
		CreatedAt:      deputy.CreatedAt,
		UpdatedAt:      deputy.UpdatedAt,
	}

	if deputy.Party != nil {
		party := partyResponse(*deputy.Party, partyMembers)
		detail.Party = &party
	}

	return detail
}

// attendanceResponse expects attendance.Deputy and attendance.Session preloaded.
func attendanceResponse(attendance models.Attendance) types.AttendanceResponse {
	return types.AttendanceResponse{
		ID:            attendance.ID,
		DeputyID:      attendance.DeputyID,
		DeputyName:    attendance.Deputy.FullName(),
		SessionID:     attendance.SessionID,
		SessionTitle:  attendance.Session.Title,
		IsPresent:     attendance.IsPresent,
		AbsenceReason: attendance.AbsenceReason,
		ArrivalTime:   attendance.ArrivalTime,
		DepartureTime: attendance.DepartureTime,
	}
}

func sessionSummary(session models.Session, rate float64) types.SessionSummary {
	return types.SessionSummary{
		ID:             session.ID,
		Title:          session.Title,
		SessionType:    session.SessionType,
		Date:           session.Date,
		Location:       session.Location,
		AttendanceRate: rate,
		IsClosed:       session.IsClosed,
	}
}

func sessionDetail(session models.Session, rate float64) types.SessionDetail {
	attendances := make([]types.AttendanceResponse, 0, len(session.Attendances))

	for _, attendance := range session.Attendances {
		attendance.Session = session
		attendances = append(attendances, attendanceResponse(attendance))
	}

	return types.SessionDetail{
		ID:              session.ID,
		Title:           session.Title,
		SessionType:     session.SessionType,
		Date:            session.Date,
		Agenda:          session.Agenda,
		Location:        session.Location,
		DurationMinutes: session.DurationMinutes,
		Documents:       session.Documents,
		IsClosed:        session.IsClosed,
		AttendanceRate:  rate,
		Attendances:     attendances,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}

// deputyVoteResponse expects deputyVote.Deputy preloaded.
func deputyVoteResponse(deputyVote models.DeputyVote) types.DeputyVoteResponse {
	return types.DeputyVoteResponse{
		ID:         deputyVote.ID,
		DeputyID:   deputyVote.DeputyID,
		DeputyName: deputyVote.Deputy.FullName(),
		Choice:     deputyVote.Choice,
		CreatedAt:  deputyVote.CreatedAt,
	}
}

// voteResponse tallies results from the preloaded deputy votes.
func voteResponse(vote models.Vote) types.VoteResponse {
	var results types.VoteResults

	deputyVotes := make([]types.DeputyVoteResponse, 0, len(vote.DeputyVotes))

	for _, deputyVote := range vote.DeputyVotes {
		switch deputyVote.Choice {
		case types.ChoiceFor:
			results.For++
		case types.ChoiceAgainst:
			results.Against++
		case types.ChoiceAbstain:
			results.Abstain++
		}
		results.Total++
		deputyVotes = append(deputyVotes, deputyVoteResponse(deputyVote))
	}

	return types.VoteResponse{
		ID:          vote.ID,
		SessionID:   vote.SessionID,
		Title:       vote.Title,
		Description: vote.Description,
		Results:     results,
		DeputyVotes: deputyVotes,
		IsActive:    vote.IsActive,
		CreatedAt:   vote.CreatedAt,
	}
}
