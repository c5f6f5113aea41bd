package otp

import (
	"time"

	"otp-gateway/httpServices/sms"
	"otp-gateway/logger"
	"otp-gateway/models/otp"
	otpService "otp-gateway/services/otp"
	"otp-gateway/types"
	otpTypes "otp-gateway/types/otp"
	"otp-gateway/utils"

	"github.com/gofiber/fiber/v2"
)

// Controller handles OTP-related HTTP requests
type Controller struct {
	OTPService *otpService.Service
	SMSService sms.Sender
}

// NewOTPController creates a new OTP controller
func NewOTPController(service *otpService.Service, sender sms.Sender) *Controller {
	return &Controller{
		OTPService: service,
		SMSService: sender,
	}
}

// VerifyOTP runs a single verification attempt for a user.
func (oc *Controller) VerifyOTP(c *fiber.Ctx) error {
	var req otpTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse verify-otp request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "userId và otpCode là bắt buộc",
			"respCode": types.RespFailed,
		})
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		if utils.HasRequiredError(errs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    "userId và otpCode là bắt buộc",
				"respCode": types.RespFailed,
			})
		}
		return c.JSON(fiber.Map{
			"respCode": types.RespFailed,
			"msg":      "Mã OTP phải có 6 chữ số",
			"error":    "Invalid OTP format",
		})
	}

	result, err := oc.OTPService.VerifyOTP(c.UserContext(), req.UserID, req.OTPCode)
	if err != nil {
		logger.Error("Failed to verify OTP", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi server khi xác thực OTP",
			"respCode": types.RespServerError,
			"details":  err.Error(),
		})
	}

	if result.Success {
		return c.JSON(fiber.Map{
			"respCode": types.RespSuccess,
			"msg":      "Xác thực OTP thành công",
			"data": otpTypes.VerifiedData{
				UserID:     req.UserID,
				VerifiedAt: time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	respCode := types.RespFailed
	switch result.Code {
	case otp.CodeExpired:
		respCode = types.RespDelivery
	case otp.CodeMaxAttemptsExceeded:
		respCode = types.RespLockedOut
	}

	return c.JSON(fiber.Map{
		"respCode":     respCode,
		"msg":          result.Message,
		"error":        string(result.Code),
		"attemptsLeft": result.AttemptsLeft,
	})
}

// ResendOTP issues a fresh code and re-attempts delivery.
func (oc *Controller) ResendOTP(c *fiber.Ctx) error {
	var req otpTypes.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse resend-otp request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "userId và phoneNumber là bắt buộc",
			"respCode": types.RespFailed,
		})
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		if utils.HasRequiredError(errs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    "userId và phoneNumber là bắt buộc",
				"respCode": types.RespFailed,
			})
		}
		return c.JSON(fiber.Map{
			"respCode": types.RespFailed,
			"msg":      "Số điện thoại không hợp lệ. Vui lòng nhập số điện thoại từ 9-11 chữ số bắt đầu bằng số 0.",
			"error":    "Invalid phone number format",
		})
	}

	rec, err := oc.OTPService.CreateOTP(c.UserContext(), req.UserID, req.PhoneNumber)
	if err != nil {
		logger.Error("Failed to create OTP for resend", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi server khi gửi lại OTP",
			"respCode": types.RespServerError,
			"details":  err.Error(),
		})
	}

	sendResult, err := oc.SMSService.Send(req.PhoneNumber, rec.OTPCode)
	if err != nil || !sendResult.Success {
		return c.JSON(fiber.Map{
			"respCode": types.RespDelivery,
			"msg":      "Không thể gửi lại OTP. Vui lòng thử lại sau.",
			"error":    "Failed to resend OTP",
		})
	}

	return c.JSON(fiber.Map{
		"respCode": types.RespSuccess,
		"msg":      "Gửi lại OTP thành công",
		"data": otpTypes.OTPInfo{
			PhoneNumber:  req.PhoneNumber,
			ExpiryTime:   rec.ExpiryTime,
			AttemptsLeft: rec.MaxAttempts,
		},
	})
}

// GetStats reports the four record counts.
func (oc *Controller) GetStats(c *fiber.Ctx) error {
	stats, err := oc.OTPService.GetStats(c.UserContext())
	if err != nil {
		logger.Error("Failed to get OTP stats", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi server khi lấy thống kê OTP",
			"respCode": types.RespServerError,
			"details":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"respCode": types.RespSuccess,
		"msg":      "OTP statistics",
		"data":     stats,
	})
}

// DebugOTP exposes the user's active record for testing.
func (oc *Controller) DebugOTP(c *fiber.Ctx) error {
	userID := c.Params("userId")

	rec, err := oc.OTPService.FindActiveOTPByUserID(c.UserContext(), userID)
	if err != nil {
		logger.Error("Failed to debug OTP", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi server khi debug OTP",
			"respCode": types.RespServerError,
			"details":  err.Error(),
		})
	}

	if rec == nil {
		return c.JSON(fiber.Map{
			"respCode": types.RespFailed,
			"msg":      "No active OTP found for this user",
			"data":     nil,
		})
	}

	return c.JSON(fiber.Map{
		"respCode": types.RespSuccess,
		"msg":      "OTP found",
		"data": otpTypes.DebugData{
			OTPCode:     rec.OTPCode,
			PhoneNumber: rec.PhoneNumber,
			CreatedAt:   rec.CreatedAt,
			ExpiryTime:  rec.ExpiryTime,
			Attempts:    rec.Attempts,
			MaxAttempts: rec.MaxAttempts,
			IsExpired:   rec.IsExpired(),
			IsUsed:      rec.IsUsed,
		},
	})
}

// CleanupOTPs triggers the manual sweep of expired and used records.
func (oc *Controller) CleanupOTPs(c *fiber.Ctx) error {
	deleted, err := oc.OTPService.CleanupExpiredOTPs(c.UserContext())
	if err != nil {
		logger.Error("Failed to clean up OTP records", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi server khi cleanup OTP",
			"respCode": types.RespServerError,
			"details":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"respCode": types.RespSuccess,
		"msg":      "Cleanup completed",
		"data":     otpTypes.CleanupData{CleanedCount: deleted},
	})
}
