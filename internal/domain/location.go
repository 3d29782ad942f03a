package domain

import "time"

// ProviderLocation is the latest known position of a provider for one
// booking. There is one row per (provider_id, booking_id) pair, replaced
// on every report; deactivation flips is_active, rows are never deleted
// by the tracking flow.
type ProviderLocation struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	BookingID  string    `json:"booking_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	Heading    *float64  `json:"heading,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
