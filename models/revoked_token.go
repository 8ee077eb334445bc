package models

import "gorm.io/gorm"

// RevokedToken records a logged-out token by its jti.
// ExpiresAt is a unix timestamp; 0 means the token never expires.
type RevokedToken struct {
	gorm.Model
	TokenID   string `gorm:"not null;unique;index"`
	ExpiresAt int64  `gorm:"not null;index"`
}
