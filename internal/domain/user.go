package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Profile struct {
	UserID       string
	FullName     string
	AvatarURL    string
	HeightCm     int
	GoalWeightKg float64
	UpdatedAt    time.Time
}

// Identity est l'utilisateur authentifié d'une requête.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
