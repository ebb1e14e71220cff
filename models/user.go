package models

import (
	"time"
)

// User rows exist as referential anchors for interactions, moderation and
// campaigns. Account creation and credentials live in the external auth
// service; this table only mirrors identity and role tags.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
