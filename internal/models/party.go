package models

import "time"

type Party struct {
	BaseModel

	Name        string `gorm:"not null"`
	ShortName   string
	Logo        string // path to the uploaded logo
	Description string
	FoundedDate *time.Time
	Website     string
	Color       string `gorm:"not null;default:'#000000'"` // hex color

	// Relationships
	Deputies []Deputy `gorm:"foreignKey:PartyID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
