package domain

import "time"

// User is an account. RefreshToken holds the single active refresh token;
// writing a new value invalidates the previous one.
type User struct {
	UserID             string    `json:"user_id" dynamodbav:"user_id"`
	Email              string    `json:"email" dynamodbav:"email"`
	PasswordHash       string    `json:"-" dynamodbav:"password_hash"`
	RefreshToken       string    `json:"-" dynamodbav:"refresh_token"`
	RefreshTokenExpiry int64     `json:"-" dynamodbav:"refresh_token_expiry"` // unix seconds
	CreatedAt          time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}
