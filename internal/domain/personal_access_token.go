package domain

import "time"

type PersonalAccessToken struct {
	ID        int64
	TokenHash string
	UserID    string
	Abilities string
	ExpiresAt *time.Time
}
