package domain

import "time"

type Room struct {
	ID               int64
	HotelName        string
	Name             string
	Description      string
	NightlyRateCents int64
	MaxGuests        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
