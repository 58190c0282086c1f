package db

import (
	"time"

	"gorm.io/datatypes"
)

// Room mirrors a live room. Snapshot holds the full serialized room state
// as a self-describing document; the in-memory store stays authoritative.
type Room struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"size:12;uniqueIndex;not null"`
	HostID    string         `gorm:"size:64;not null"`
	Status    string         `gorm:"size:32;not null"`
	Round     int            `gorm:"not null;default:0"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	Messages  []Message
	Events    []Event
}

type Message struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     uint      `gorm:"index;not null"`
	MessageID  string    `gorm:"size:64;not null"`
	PlayerID   string    `gorm:"size:64;not null"`
	PlayerName string    `gorm:"size:64;not null"`
	Text       string    `gorm:"size:280;not null"`
	IsCorrect  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`
}

type Word struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"size:64;uniqueIndex;not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
