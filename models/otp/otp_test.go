package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	rec := &OTP{ExpiryTime: time.Now().Add(time.Minute)}
	assert.False(t, rec.IsExpired())

	rec.ExpiryTime = time.Now().Add(-time.Minute)
	assert.True(t, rec.IsExpired())
}

func TestAttemptsLeftClampsAtZero(t *testing.T) {
	rec := &OTP{Attempts: 2, MaxAttempts: 5}
	assert.Equal(t, 3, rec.AttemptsLeft())

	rec.Attempts = 6
	assert.Equal(t, 0, rec.AttemptsLeft())
}
