package models

import (
	"strings"
	"time"
)

type Deputy struct {
	BaseModel

	UserID       *uint  `gorm:"uniqueIndex"` // optional login account
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	MiddleName   string
	PartyID      *uint `gorm:"index"`
	Photo        string
	BirthDate    *time.Time
	ElectionDate time.Time `gorm:"not null"`
	District     string    `gorm:"not null"`
	Biography    string
	Email        string
	Phone        string
	IsActive     bool `gorm:"not null;default:true"`

	// Relationships
	User        *User        `gorm:"foreignKey:UserID"`
	Party       *Party       `gorm:"foreignKey:PartyID"`
	Attendances []Attendance `gorm:"foreignKey:DeputyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DeputyVotes []DeputyVote `gorm:"foreignKey:DeputyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (d Deputy) FullName() string {
	return strings.TrimSpace(strings.Join([]string{d.LastName, d.FirstName, d.MiddleName}, " "))
}
