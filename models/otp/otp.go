package otp

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultMaxAttempts is the number of verification attempts allowed
	// before a record is locked out.
	DefaultMaxAttempts = 5

	// DefaultExpiry is how long a freshly issued code stays valid.
	DefaultExpiry = 10 * time.Minute

	// PhonePattern matches a leading 0 followed by 8-10 digits.
	PhonePattern = `^0\d{8,10}$`

	// CodePattern matches exactly 6 decimal digits.
	CodePattern = `^\d{6}$`
)

// OTP represents a one-time passcode issued to a user for phone verification.
type OTP struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	OTPCode     string             `bson:"otpCode" json:"otpCode"`
	IsUsed      bool               `bson:"isUsed" json:"isUsed"`
	Attempts    int                `bson:"attempts" json:"attempts"`
	MaxAttempts int                `bson:"maxAttempts" json:"maxAttempts"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiryTime  time.Time          `bson:"expiryTime" json:"expiryTime"`
}

// IsExpired reports whether the record is past its expiry time. It is a
// derived predicate and is never persisted.
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiryTime)
}

// AttemptsLeft returns how many verification attempts remain.
func (o *OTP) AttemptsLeft() int {
	left := o.MaxAttempts - o.Attempts
	if left < 0 {
		return 0
	}
	return left
}

// VerifyCode identifies the outcome of a verification attempt.
type VerifyCode string

const (
	CodeVerified            VerifyCode = "OTP_VERIFIED"
	CodeNotFound            VerifyCode = "OTP_NOT_FOUND"
	CodeExpired             VerifyCode = "OTP_EXPIRED"
	CodeUsed                VerifyCode = "OTP_USED"
	CodeIncorrect           VerifyCode = "OTP_INCORRECT"
	CodeMaxAttemptsExceeded VerifyCode = "MAX_ATTEMPTS_EXCEEDED"
)

// Stats holds the four independent record counts reported by the stats
// endpoint. Expired counts every record past expiry regardless of the used
// flag, so the figures do not partition the collection.
type Stats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
	Used    int64 `json:"used"`
}
