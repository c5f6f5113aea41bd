package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"otp-gateway/logger"
	"otp-gateway/models/otp"
	"otp-gateway/repository"
)

// Service owns the OTP lifecycle: creation, lookup, verification,
// statistics and cleanup. All state lives in the injected repository.
type Service struct {
	Repo repository.OTPRepository
}

// NewOTPService creates a new OTP service
func NewOTPService(repo repository.OTPRepository) *Service {
	return &Service{Repo: repo}
}

// VerifyResult describes the outcome of a single verification attempt.
type VerifyResult struct {
	Success      bool           `json:"success"`
	Code         otp.VerifyCode `json:"code"`
	Message      string         `json:"message"`
	AttemptsLeft int            `json:"attemptsLeft,omitempty"`
}

// GenerateOTPCode draws a code uniformly from [100000, 999999]. The floor
// excludes leading-zero codes, so the result is always 6 digits.
func (s *Service) GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// CreateOTP issues a fresh code for the user, superseding any previous
// record. The upsert keyed on userId keeps at most one record per user
// even under concurrent creates.
func (s *Service) CreateOTP(ctx context.Context, userID, phoneNumber string) (*otp.OTP, error) {
	otpCode, err := s.GenerateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := time.Now()
	rec := &otp.OTP{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		OTPCode:     otpCode,
		IsUsed:      false,
		Attempts:    0,
		MaxAttempts: otp.DefaultMaxAttempts,
		CreatedAt:   now,
		ExpiryTime:  now.Add(otp.DefaultExpiry),
	}

	if err := s.Repo.Replace(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store OTP record: %w", err)
	}

	logger.Success(fmt.Sprintf("📱 OTP created for user %s: %s (expires at %s)",
		userID, otpCode, rec.ExpiryTime.Format("2006-01-02 15:04:05")))

	return rec, nil
}

// FindActiveOTPByUserID returns the user's record that is neither used nor
// expired, or nil when none exists.
func (s *Service) FindActiveOTPByUserID(ctx context.Context, userID string) (*otp.OTP, error) {
	return s.Repo.FindActiveByUserID(ctx, userID)
}

// VerifyOTP runs one verification attempt against the user's active
// record. Every attempt that reaches a live record increments its counter
// through an atomic conditional update.
func (s *Service) VerifyOTP(ctx context.Context, userID, inputCode string) (*VerifyResult, error) {
	rec, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find OTP record: %w", err)
	}

	if rec == nil {
		return &VerifyResult{
			Success: false,
			Code:    otp.CodeNotFound,
			Message: "OTP không tồn tại hoặc đã hết hạn",
		}, nil
	}

	if rec.IsExpired() {
		return &VerifyResult{
			Success: false,
			Code:    otp.CodeExpired,
			Message: "OTP đã hết hạn",
		}, nil
	}

	if rec.IsUsed {
		return &VerifyResult{
			Success: false,
			Code:    otp.CodeUsed,
			Message: "OTP đã được sử dụng",
		}, nil
	}

	updated, err := s.Repo.IncrementAttempts(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update attempt count: %w", err)
	}
	if updated == nil {
		// A concurrent attempt consumed the record first.
		return &VerifyResult{
			Success: false,
			Code:    otp.CodeUsed,
			Message: "OTP đã được sử dụng",
		}, nil
	}

	if updated.Attempts > updated.MaxAttempts {
		if _, err := s.Repo.MarkUsed(ctx, updated.ID); err != nil {
			return nil, fmt.Errorf("failed to lock OTP record: %w", err)
		}
		return &VerifyResult{
			Success: false,
			Code:    otp.CodeMaxAttemptsExceeded,
			Message: "Vượt quá số lần thử cho phép",
		}, nil
	}

	if updated.OTPCode != inputCode {
		left := updated.AttemptsLeft()
		return &VerifyResult{
			Success:      false,
			Code:         otp.CodeIncorrect,
			Message:      fmt.Sprintf("OTP không đúng. Còn %d lần thử", left),
			AttemptsLeft: left,
		}, nil
	}

	ok, err := s.Repo.MarkUsed(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark OTP as used: %w", err)
	}
	if !ok {
		return &VerifyResult{
			Success: false,
			Code:    otp.CodeUsed,
			Message: "OTP đã được sử dụng",
		}, nil
	}

	return &VerifyResult{
		Success: true,
		Code:    otp.CodeVerified,
		Message: "OTP xác thực thành công",
	}, nil
}

// GetStats reports four independent counts over the whole collection. The
// expired figure ignores the used flag, so the counts can overlap.
func (s *Service) GetStats(ctx context.Context) (*otp.Stats, error) {
	total, err := s.Repo.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count OTP records: %w", err)
	}
	active, err := s.Repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active OTP records: %w", err)
	}
	expired, err := s.Repo.CountExpired(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count expired OTP records: %w", err)
	}
	used, err := s.Repo.CountUsed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count used OTP records: %w", err)
	}

	return &otp.Stats{Total: total, Active: active, Expired: expired, Used: used}, nil
}

// CleanupExpiredOTPs deletes every expired or consumed record. It
// complements the store's TTL index, whose deletions are only eventual,
// and is safe to call at any time.
func (s *Service) CleanupExpiredOTPs(ctx context.Context) (int64, error) {
	deleted, err := s.Repo.DeleteExpiredOrUsed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up OTP records: %w", err)
	}

	if deleted > 0 {
		logger.Info(fmt.Sprintf("🧹 Cleaned up %d expired/used OTP records", deleted))
	}

	return deleted, nil
}
