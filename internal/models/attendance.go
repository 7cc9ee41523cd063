package models

type Attendance struct {
	BaseModel

	DeputyID      uint `gorm:"not null;uniqueIndex:idx_deputy_session"`
	SessionID     uint `gorm:"not null;uniqueIndex:idx_deputy_session"`
	IsPresent     bool `gorm:"not null;default:false"`
	AbsenceReason string
	ArrivalTime   *string // "HH:MM"
	DepartureTime *string

	// Relationships
	Deputy  Deputy  `gorm:"foreignKey:DeputyID"`
	Session Session `gorm:"foreignKey:SessionID"`
}
