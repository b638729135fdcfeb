// Package domain contains the core concepts of the duospace system.
// No runtime, storage, or UI logic should be added here.
package domain

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// CompanionID is the reserved sender id of the AI companion.
// It never corresponds to a stored User.
const CompanionID = "ai"

// Settings carries per-user preferences. Mutated only through
// settings updates, never as a side effect of another operation.
type Settings struct {
	ReadReceipts bool  `json:"readReceipts"`
	LastSeen     bool  `json:"lastSeen"`
	Theme        Theme `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{ReadReceipts: true, LastSeen: true, Theme: ThemeLight}
}

// User is created on first login with a username and never deleted.
// Usernames are bare claims: uniqueness is case-insensitive, there is
// no password and no identity verification.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"name"`
	AvatarColor string    `json:"avatarColor"`
	Settings    Settings  `json:"settings"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session is an ephemeral pointer to the authenticated user, held by a
// single client process. It is never persisted to the shared store.
type Session struct {
	Token string
	User  User
}
