package models

import "time"

// User is a registered identity. PasswordHash is the bcrypt hash of the
// login credential and never leaves the persistence layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
