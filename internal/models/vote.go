package models

type Vote struct {
	BaseModel

	SessionID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"not null;default:true"`

	// Relationships
	Session     Session      `gorm:"foreignKey:SessionID"`
	DeputyVotes []DeputyVote `gorm:"foreignKey:VoteID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
