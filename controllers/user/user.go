package user

import (
	"errors"

	"otp-gateway/httpServices/sms"
	"otp-gateway/httpServices/usermgmt"
	"otp-gateway/logger"
	otpService "otp-gateway/services/otp"
	"otp-gateway/types"
	otpTypes "otp-gateway/types/otp"
	userTypes "otp-gateway/types/user"
	"otp-gateway/utils"

	"github.com/gofiber/fiber/v2"
)

// Controller handles the endpoints that talk to the upstream
// user-management API: account lookup and password reset.
type Controller struct {
	OTPService *otpService.Service
	SMSService sms.Sender
	Upstream   *usermgmt.Client
	Domain     string
}

// NewUserController creates a new user controller
func NewUserController(service *otpService.Service, sender sms.Sender, upstream *usermgmt.Client, domain string) *Controller {
	return &Controller{
		OTPService: service,
		SMSService: sender,
		Upstream:   upstream,
		Domain:     domain,
	}
}

// GetConfig exposes the upstream base domain.
func (uc *Controller) GetConfig(c *fiber.Ctx) error {
	return c.JSON(userTypes.ConfigResponse{Domain: uc.Domain})
}

// SearchUser looks the account up by phone number and, when found, issues
// and delivers an OTP for it.
func (uc *Controller) SearchUser(c *fiber.Ctx) error {
	username := c.Query("username")

	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "Vui lòng nhập số điện thoại",
			"respCode": types.RespFailed,
		})
	}

	if !utils.IsValidPhone(username) {
		return c.JSON(fiber.Map{
			"respCode": types.RespFailed,
			"msg":      "Số điện thoại không hợp lệ. Vui lòng nhập số điện thoại từ 9-11 chữ số bắt đầu bằng số 0.",
			"error":    "Invalid phone number format",
		})
	}

	result, err := uc.Upstream.SearchUser(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, usermgmt.ErrUserNotFound) {
			return c.JSON(fiber.Map{
				"respCode": types.RespFailed,
				"msg":      "Không tìm thấy tài khoản trong hệ thống. Vui lòng kiểm tra lại số điện thoại.",
				"error":    "User not found",
			})
		}
		logger.Error("Search user error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi kết nối server. Vui lòng thử lại sau.",
			"details":  err.Error(),
			"respCode": types.RespServerError,
		})
	}

	userID, ok := result.User["_id"].(string)
	if !ok || userID == "" {
		return c.JSON(fiber.Map{
			"respCode": types.RespFailed,
			"msg":      "Không tìm thấy tài khoản trong hệ thống. Vui lòng kiểm tra lại số điện thoại.",
			"error":    "User not found",
		})
	}

	rec, err := uc.OTPService.CreateOTP(c.UserContext(), userID, username)
	if err != nil {
		logger.Error("Failed to create OTP after user lookup", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Lỗi kết nối server. Vui lòng thử lại sau.",
			"details":  err.Error(),
			"respCode": types.RespServerError,
		})
	}

	sendResult, err := uc.SMSService.Send(username, rec.OTPCode)
	if err != nil || !sendResult.Success {
		return c.JSON(fiber.Map{
			"respCode": types.RespDelivery,
			"msg":      "Không thể gửi OTP. Vui lòng thử lại sau.",
			"error":    "Failed to send OTP",
		})
	}

	// Pass the upstream payload through as-is and bolt the OTP info on.
	resp := fiber.Map{}
	for k, v := range result.Raw {
		resp[k] = v
	}
	resp["otpSent"] = true
	resp["otpInfo"] = otpTypes.OTPInfo{
		PhoneNumber:  username,
		ExpiryTime:   rec.ExpiryTime,
		AttemptsLeft: rec.MaxAttempts,
	}

	return c.JSON(resp)
}

// SetPassword proxies the password reset to the upstream API.
func (uc *Controller) SetPassword(c *fiber.Ctx) error {
	var req userTypes.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse set-password request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId and newPassword are required",
		})
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId and newPassword are required",
		})
	}

	data, err := uc.Upstream.SetPassword(c.UserContext(), req.UserID, req.NewPassword)
	if err != nil {
		logger.Error("Set password error", err)

		var upErr *usermgmt.UpstreamError
		if errors.As(err, &upErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to set password",
				"backend": upErr.Body,
			})
		}
		if errors.Is(err, usermgmt.ErrNoResponse) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "No response received from backend",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to set password",
			"details": err.Error(),
		})
	}

	return c.JSON(data)
}
