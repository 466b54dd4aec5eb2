package model

import "time"

type User struct {
	ID             int64
	Email          string
	Username       string
	FullName       string
	HashedPassword string
	IsActive       bool
	IsAdmin        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
