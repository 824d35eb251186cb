package models

import "time"

// User is an admin account able to edit shipping configuration
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	Suspended bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is one logged-in device for a user
type Session struct {
	UserID    int       `json:"user_id"`
	SessionID string    `json:"session_id"`
	HostName  string    `json:"host_name"`
	IPAddress string    `json:"ip_address"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginRequest carries admin credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@example.com"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the session and access token after login
type LoginResponse struct {
	Message     string `json:"message" example:"User successfully logged in"`
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	User        *User  `json:"user,omitempty"`
}

// ErrorResponse is the generic error envelope
type ErrorResponse struct {
	Error   string `json:"error" example:"something went wrong"`
	Details string `json:"details,omitempty"`
}
