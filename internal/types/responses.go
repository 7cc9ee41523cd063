package types

import "time"

// Explicit response shapes per endpoint. List endpoints return the summary
// shape, detail endpoints the full shape with nested rows.

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"user_type"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type PartyResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name"`
	Logo         string  `json:"logo"`
	Description  string  `json:"description"`
	FoundedDate  *string `json:"founded_date"` // "2006-01-02"
	FoundedYear  *int    `json:"founded_year"`
	Website      string  `json:"website"`
	Color        string  `json:"color"`
	MembersCount int64   `json:"members_count"`
}

type DeputySummary struct {
	ID             uint    `json:"id"`
	FullName       string  `json:"full_name"`
	Photo          string  `json:"photo"`
	PartyID        *uint   `json:"party"`
	PartyName      string  `json:"party_name"`
	PartyColor     string  `json:"party_color"`
	District       string  `json:"district"`
	AttendanceRate float64 `json:"attendance_rate"`
	IsActive       bool    `json:"is_active"`
}

type DeputyDetail struct {
	ID             uint           `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	MiddleName     string         `json:"middle_name"`
	FullName       string         `json:"full_name"`
	Party          *PartyResponse `json:"party"`
	Photo          string         `json:"photo"`
	BirthDate      *string        `json:"birth_date"`
	ElectionDate   string         `json:"election_date"`
	District       string         `json:"district"`
	Biography      string         `json:"biography"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	IsActive       bool           `json:"is_active"`
	AttendanceRate float64        `json:"attendance_rate"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type AttendanceResponse struct {
	ID            uint    `json:"id"`
	DeputyID      uint    `json:"deputy"`
	DeputyName    string  `json:"deputy_name"`
	SessionID     uint    `json:"session"`
	SessionTitle  string  `json:"session_title"`
	IsPresent     bool    `json:"is_present"`
	AbsenceReason string  `json:"absence_reason"`
	ArrivalTime   *string `json:"arrival_time"`
	DepartureTime *string `json:"departure_time"`
}

type SessionSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	SessionType    string    `json:"session_type"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	AttendanceRate float64   `json:"attendance_rate"`
	IsClosed       bool      `json:"is_closed"`
}

type SessionDetail struct {
	ID              uint                 `json:"id"`
	Title           string               `json:"title"`
	SessionType     string               `json:"session_type"`
	Date            time.Time            `json:"date"`
	Agenda          string               `json:"agenda"`
	Location        string               `json:"location"`
	DurationMinutes int                  `json:"duration_minutes"`
	Documents       string               `json:"documents"`
	IsClosed        bool                 `json:"is_closed"`
	AttendanceRate  float64              `json:"attendance_rate"`
	Attendances     []AttendanceResponse `json:"attendances"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type DeputyVoteResponse struct {
	ID         uint      `json:"id"`
	DeputyID   uint      `json:"deputy"`
	DeputyName string    `json:"deputy_name"`
	Choice     string    `json:"choice"`
	CreatedAt  time.Time `json:"created_at"`
}

type VoteResults struct {
	For     int64 `json:"for"`
	Against int64 `json:"against"`
	Abstain int64 `json:"abstain"`
	Total   int64 `json:"total"`
}

type VoteResponse struct {
	ID          uint                 `json:"id"`
	SessionID   uint                 `json:"session"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Results     VoteResults          `json:"results"`
	DeputyVotes []DeputyVoteResponse `json:"deputy_votes"`
	IsActive    bool                 `json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
}

type StatisticsResponse struct {
	TotalDeputies     int64            `json:"total_deputies"`
	ActiveDeputies    int64            `json:"active_deputies"`
	TotalParties      int64            `json:"total_parties"`
	TotalSessions     int64            `json:"total_sessions"`
	AverageAttendance float64          `json:"average_attendance"`
	UpcomingSessions  int64            `json:"upcoming_sessions"`
	RecentSessions    []SessionSummary `json:"recent_sessions"`
	TopAttendees      []DeputySummary  `json:"top_attendees"`
}
