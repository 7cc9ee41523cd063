package models

import "time"

type Session struct {
	BaseModel

	Title           string    `gorm:"not null"`
	SessionType     string    `gorm:"not null;default:'plenary'"` // "plenary", "committee", "working_group", "extraordinary"
	Date            time.Time `gorm:"not null;index"`
	Agenda          string
	Location        string
	DurationMinutes int    `gorm:"not null;default:60"`
	Documents       string // path to the uploaded document
	IsClosed        bool   `gorm:"not null;default:false"` // visible to non-guests only

	// Relationships
	Attendances []Attendance `gorm:"foreignKey:SessionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Votes       []Vote       `gorm:"foreignKey:SessionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
