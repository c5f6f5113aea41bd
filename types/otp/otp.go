package otp

import "time"

// VerifyOTPRequest represents the request payload for verifying an OTP.
type VerifyOTPRequest struct {
	UserID  string `json:"userId" validate:"required"`
	OTPCode string `json:"otpCode" validate:"required,otpcode"`
}

// ResendOTPRequest represents the request payload for reissuing an OTP.
type ResendOTPRequest struct {
	UserID      string `json:"userId" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,vnphone"`
}

// OTPInfo describes a freshly issued code to the caller without exposing
// the code itself.
type OTPInfo struct {
	PhoneNumber  string    `json:"phoneNumber"`
	ExpiryTime   time.Time `json:"expiryTime"`
	AttemptsLeft int       `json:"attemptsLeft"`
}

// VerifiedData is the success payload of the verify endpoint.
type VerifiedData struct {
	UserID     string `json:"userId"`
	VerifiedAt string `json:"verifiedAt"`
}

// DebugData is the full active-record snapshot served by the debug
// endpoint, including the derived expiry flag.
type DebugData struct {
	OTPCode     string    `json:"otpCode"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiryTime  time.Time `json:"expiryTime"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"maxAttempts"`
	IsExpired   bool      `json:"isExpired"`
	IsUsed      bool      `json:"isUsed"`
}

// CleanupData is the payload of the manual cleanup endpoint.
type CleanupData struct {
	CleanedCount int64 `json:"cleanedCount"`
}
