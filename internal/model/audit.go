package model

import "time"

// ContactDisclosed is emitted once per accepted full contact reveal
type ContactDisclosed struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Role       Role      `json:"role"`
	SessionID  string    `json:"session_id"`
	ListingID  int64     `json:"listing_id"`
	RevealedAt time.Time `json:"revealed_at"`
}
