package models

type DeputyVote struct {
	BaseModel

	VoteID   uint   `gorm:"not null;uniqueIndex:idx_vote_deputy"`
	DeputyID uint   `gorm:"not null;uniqueIndex:idx_vote_deputy"`
	Choice   string `gorm:"not null"` // "for", "against", "abstain"

	// Relationships
	Vote   Vote   `gorm:"foreignKey:VoteID"`
	Deputy Deputy `gorm:"foreignKey:DeputyID"`
}
