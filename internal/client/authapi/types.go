package authapi

import "time"

// Credentials are submitted in the first registration step.
type Credentials struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// Reply is the body of every successful response.
type Reply struct {
	Message string `json:"message"`
}

// LoginReply is returned by the password step and carries the session token.
type LoginReply struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// UserProfile is the read-only projection served by the profile endpoint.
type UserProfile struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

type profileEnvelope struct {
	Data *UserProfile `json:"data"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type identifierRequest struct {
	Identifier string `json:"identifier"`
}

type verifyLoginOTPRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
}

type passwordLoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
