package model

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Not exposed
	PasswordSalt string    `json:"-"` // Not exposed
	CreatedAt    time.Time `json:"created_at"`
}
