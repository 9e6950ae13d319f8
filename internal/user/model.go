package user

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Avatar       *string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SignupParams struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

type UpdateProfileParams struct {
	Name   *string
	Phone  *string
	Avatar *string
}
