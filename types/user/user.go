package user

// SetPasswordRequest represents the request payload for the password
// reset proxy endpoint.
type SetPasswordRequest struct {
	UserID      string `json:"userId" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ConfigResponse exposes the upstream base domain to the caller.
type ConfigResponse struct {
	Domain string `json:"domain"`
}
