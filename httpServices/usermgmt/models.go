package usermgmt

// SetPasswordRequest is the body of the upstream set-user-password call.
type SetPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

// SearchUserResult carries a successful upstream lookup. Raw holds the
// full upstream payload so handlers can pass it through unchanged.
type SearchUserResult struct {
	RespCode string
	Msg      string
	User     map[string]interface{}
	Raw      map[string]interface{}
}
