package auth

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`          // Desired username. Must be unique.
	Password string `json:"password" binding:"required,min=8" example:"Str0ngP@ss!"` // User's desired password (min length 8).
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`    // Username used at registration.
	Password string `json:"password" binding:"required" example:"password123"` // User's password.
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	Token   string `json:"token" example:"eyJhbGciOiJI..."`    // Short-lived JWT access token.
	Message string `json:"message" example:"Login successful"` // Confirmation message.
}
