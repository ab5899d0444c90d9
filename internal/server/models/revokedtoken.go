package models

import "time"

// RevokedToken is a logged-out access token, kept until it expires.
type RevokedToken struct {
	TokenID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
