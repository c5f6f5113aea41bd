package sms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	svc := NewSMSService()
	svc.Delay = 0
	svc.randFloat = func() float64 { return 0.5 }

	result, err := svc.Send("0912345678", "123456")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "FAKE_SMS_GATEWAY", result.Provider)
}

func TestSendFailure(t *testing.T) {
	svc := NewSMSService()
	svc.Delay = 0
	svc.randFloat = func() float64 { return 0.95 }

	result, err := svc.Send("0912345678", "123456")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "NETWORK_ERROR", result.Error)
}

func TestSendDelayIsBounded(t *testing.T) {
	svc := NewSMSService()
	svc.Delay = 10 * time.Millisecond
	svc.randFloat = func() float64 { return 0.5 }

	start := time.Now()
	_, err := svc.Send("0912345678", "123456")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
