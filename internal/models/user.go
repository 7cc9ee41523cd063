package models

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	Role         string `gorm:"not null;default:'guest'"` // "guest", "deputy", "admin"
	Phone        string
	IsActive     bool `gorm:"not null;default:true"`

	// Relationships
	Deputy *Deputy `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
