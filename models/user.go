package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email        string `gorm:"not null;unique"`
	PasswordHash string `gorm:"not null"`
}

// UserSummary is the public view of a user, also carried inside tokens.
type UserSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email}
}
