package dto

import "pixelnote/models"

// RegisterInput ignores any extra field such as username.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterResponse struct {
	UserID uint `json:"userId"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type VerifyResponse struct {
	Valid bool               `json:"valid"`
	User  models.UserSummary `json:"user"`
}
