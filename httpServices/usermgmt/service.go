package usermgmt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUserNotFound signals that the upstream system has no account for the
// requested username.
var ErrUserNotFound = errors.New("user not found in upstream system")

// ErrNoResponse signals that the upstream request went out but no HTTP
// response came back.
var ErrNoResponse = errors.New("no response received from backend")

// UpstreamError is a reply from the upstream API with a non-success
// status. Body keeps whatever the upstream sent for passthrough.
type UpstreamError struct {
	StatusCode int
	Body       map[string]interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream API returned status %d", e.StatusCode)
}

// Client wraps the external user-management API. The auth token rides as
// a query parameter on every call, the way the upstream expects it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		token:   token,
	}
}

// SearchUser looks up an account by username (a phone number). A missing
// user is reported as ErrUserNotFound whether the upstream signals it via
// respCode or via an error body mentioning usernotfound.
func (c *Client) SearchUser(ctx context.Context, username string) (*SearchUserResult, error) {
	params := url.Values{}
	params.Set("token", c.token)
	params.Set("username", username)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/manage/api/users/search-user?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if msg, ok := data["msg"].(string); ok && strings.Contains(strings.ToLower(msg), "usernotfound") {
			return nil, ErrUserNotFound
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: data}
	}

	result := &SearchUserResult{Raw: data}
	if code, ok := data["respCode"].(string); ok {
		result.RespCode = code
	}
	if msg, ok := data["msg"].(string); ok {
		result.Msg = msg
	}
	if user, ok := data["user"].(map[string]interface{}); ok {
		result.User = user
	}

	if result.User == nil || result.RespCode != "00" {
		return nil, ErrUserNotFound
	}

	return result, nil
}

// SetPassword asks the upstream to overwrite the user's password and
// returns the upstream body verbatim.
func (c *Client) SetPassword(ctx context.Context, userID, newPassword string) (map[string]interface{}, error) {
	body, err := json.Marshal(SetPasswordRequest{UserID: userID, NewPassword: newPassword})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("token", c.token)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/manage/api/users/set-user-password?"+params.Encode(), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: data}
	}

	return data, nil
}
