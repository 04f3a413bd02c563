package postgres

import "time"

type userRow struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Role           string
	City           string
	PhotoURL       string
	EmailConfirmed bool
	Locked         bool
	CreatedAt      time.Time
}
