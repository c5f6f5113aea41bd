package sms

import (
	"fmt"
	"math/rand/v2"
	"time"

	"otp-gateway/logger"
)

// Sender delivers a one-time code to a phone number. Delivery may fail;
// the record stays valid and a resend can be attempted.
type Sender interface {
	Send(phoneNumber, otpCode string) (*SendResult, error)
}

// SendResult reports the outcome of a delivery attempt.
type SendResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SMSService simulates an SMS gateway: a bounded sub-second delay and a
// configurable success rate. A real provider integration would replace
// the body of Send without touching its contract.
type SMSService struct {
	Delay       time.Duration
	SuccessRate float64
	randFloat   func() float64
}

// NewSMSService creates the simulated gateway with the observed defaults:
// half a second of latency and a 90% delivery rate.
func NewSMSService() *SMSService {
	return &SMSService{
		Delay:       500 * time.Millisecond,
		SuccessRate: 0.9,
		randFloat:   rand.Float64,
	}
}

// Send simulates delivering otpCode to phoneNumber.
func (s *SMSService) Send(phoneNumber, otpCode string) (*SendResult, error) {
	logger.Info(fmt.Sprintf("📱 [FAKE SMS] Gửi OTP đến %s: %s", phoneNumber, otpCode))

	time.Sleep(s.Delay)

	if s.randFloat() >= s.SuccessRate {
		logger.Warning(fmt.Sprintf("❌ [FAKE SMS] Gửi thất bại OTP đến %s", phoneNumber))
		return &SendResult{
			Success: false,
			Message: "SMS gateway error",
			Error:   "NETWORK_ERROR",
		}, nil
	}

	logger.Success(fmt.Sprintf("[FAKE SMS] Gửi thành công OTP %s đến %s", otpCode, phoneNumber))
	return &SendResult{
		Success:  true,
		Message:  "OTP sent successfully",
		Provider: "FAKE_SMS_GATEWAY",
	}, nil
}
