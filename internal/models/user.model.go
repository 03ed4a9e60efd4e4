package models

import (
	"time"
)

type User struct {
	BaseUUIDModel
	Username    string     `gorm:"type:text;uniqueIndex;not null" json:"username"`
	DisplayName string     `gorm:"type:text"                      json:"displayName"`
	Email       *string    `gorm:"type:text;uniqueIndex"          json:"email,omitempty"`
	Team        Team       `gorm:"type:text;index"                json:"team"`
	DiscordID   *string    `gorm:"type:text"                      json:"discordId,omitempty"`
	IsAdmin     bool       `gorm:"type:bool;default:false"        json:"isAdmin"`
	LastLoginAt *time.Time `gorm:"type:timestamptz"               json:"lastLoginAt,omitempty"`
}

// Mention is how the user is addressed in leaderboard announcements: a Discord
// mention when the account is linked, otherwise the display name or username.
func (u *User) Mention() string {
	if u.DiscordID != nil && *u.DiscordID != "" {
		return "<@!" + *u.DiscordID + ">"
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
