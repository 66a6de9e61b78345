// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated-user snapshot embedded in bearer tokens and
// cached session records. It is a lookup value, never authoritative beyond
// the carrier's own expiry.
type Identity struct {
	UserID string   `json:"id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}
