package models

import "time"

// BaseModel carries the columns shared by every table. Records are
// deleted for real: soft deletion would leave tombstones holding the
// composite unique slots used by attendance and vote upserts.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
