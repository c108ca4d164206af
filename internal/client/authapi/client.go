package authapi

import "context"

// Client is the contract of the remote authentication service.
//
// Implementations are stateless apart from the TokenSource consulted by
// FetchProfile, and safe for concurrent use. All methods honour ctx.
type Client interface {
	Register(ctx context.Context, c Credentials) (Reply, error)
	VerifyEmail(ctx context.Context, email, otp string) (Reply, error)
	RequestLoginOTP(ctx context.Context, identifier string) (Reply, error)
	VerifyLoginOTP(ctx context.Context, identifier, otp string) (Reply, error)
	LoginWithPassword(ctx context.Context, identifier, password string) (LoginReply, error)
	ForgotPassword(ctx context.Context, email string) (Reply, error)
	ResetPassword(ctx context.Context, token, newPassword string) (Reply, error)
	FetchProfile(ctx context.Context) (*UserProfile, error)
}

// Endpoint paths, relative to the service base URL.
const (
	PathRegister       = "/api/auth/register"
	PathVerifyEmail    = "/api/auth/verify-email"
	PathRequestOTP     = "/api/auth/login/request-otp"
	PathVerifyOTP      = "/api/auth/login/verify-otp"
	PathPasswordLogin  = "/api/auth/login/password"
	PathForgotPassword = "/api/auth/forgot-password"
	PathResetPassword  = "/api/auth/reset-password"
	PathProfile        = "/api/auth/profile"
)

// Fallback messages shown when the service gives no message of its own.
const (
	FallbackRegister       = "Registration failed"
	FallbackVerifyEmail    = "Verification failed"
	FallbackRequestOTP     = "Failed to find account"
	FallbackVerifyOTP      = "Invalid OTP"
	FallbackPasswordLogin  = "Login failed"
	FallbackForgotPassword = "Error sending reset link"
	FallbackResetPassword  = "Reset failed. Token may be invalid or expired."
	FallbackProfile        = "Failed to load user data"
	SuccessRegister        = "OTP Sent to email!"
	SuccessVerifyEmail     = "Verification successful!"
	SuccessPasswordLogin   = "Login Successful! Redirecting..."
)
