// Package model defines the data structures used throughout the application.
package model

import "time"

// User is an account that can own notes and comments.
//
// PasswordHash is empty for accounts created through GitHub login, and
// GitHubID is nil for accounts created through the signup form. The json
// tag on PasswordHash keeps it out of every API response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	GitHubID     *int64    `json:"githubId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
