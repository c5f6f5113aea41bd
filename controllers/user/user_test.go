package user_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otpController "otp-gateway/controllers/otp"
	userController "otp-gateway/controllers/user"
	"otp-gateway/httpServices/sms"
	"otp-gateway/httpServices/usermgmt"
	"otp-gateway/repository"
	"otp-gateway/routes"
	otpService "otp-gateway/services/otp"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	ok   bool
	sent []string
}

func (s *stubSender) Send(phoneNumber, otpCode string) (*sms.SendResult, error) {
	s.sent = append(s.sent, phoneNumber)
	if !s.ok {
		return &sms.SendResult{Success: false, Message: "SMS gateway error", Error: "NETWORK_ERROR"}, nil
	}
	return &sms.SendResult{Success: true, Message: "OTP sent successfully", Provider: "FAKE_SMS_GATEWAY"}, nil
}

// fakeUpstream mimics the user-management API: one known account and an
// echoing set-password endpoint.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/manage/api/users/search-user", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("username") {
		case "0912345678":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"respCode": "00",
				"msg":      "success",
				"user":     map[string]interface{}{"_id": "u-123", "fullName": "Nguyen Van A"},
			})
		case "0999999999":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"respCode": "01",
				"msg":      "not found",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "UserNotFound: no such account"})
		}
	})
	mux.HandleFunc("/manage/api/users/set-user-password", func(w http.ResponseWriter, r *http.Request) {
		var req usermgmt.SetPasswordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.UserID == "u-broken" {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"respCode": "99", "msg": "internal error"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"respCode": "00",
			"msg":      "password updated",
			"userId":   req.UserID,
		})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

type testEnv struct {
	app    *fiber.App
	repo   *repository.InMemoryOTPRepository
	sender *stubSender
}

func newTestEnv(t *testing.T, upstreamURL string) *testEnv {
	repo := repository.NewInMemoryOTPRepository()
	service := otpService.NewOTPService(repo)
	sender := &stubSender{ok: true}
	upstream := usermgmt.NewClient(upstreamURL, "test-token")

	app := fiber.New()
	routes.Register(app,
		userController.NewUserController(service, sender, upstream, upstreamURL),
		otpController.NewOTPController(service, sender),
	)

	return &testEnv{app: app, repo: repo, sender: sender}
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestGetConfig(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodGet, "/api/config", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ts.URL, body["domain"])
}

func TestSearchUserMissingUsername(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodGet, "/api/search-user", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "01", body["respCode"])
}

func TestSearchUserBadPhoneSkipsStorage(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodGet, "/api/search-user?username=12345", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "01", body["respCode"])
	assert.Equal(t, "Invalid phone number format", body["error"])

	total, err := env.repo.CountTotal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSearchUserSuccessIssuesOTP(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodGet, "/api/search-user?username=0912345678", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Upstream payload is passed through and decorated.
	assert.Equal(t, "00", body["respCode"])
	assert.Equal(t, true, body["otpSent"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "u-123", user["_id"])

	info := body["otpInfo"].(map[string]interface{})
	assert.Equal(t, "0912345678", info["phoneNumber"])
	assert.Equal(t, float64(5), info["attemptsLeft"])

	rec, err := env.repo.FindActiveByUserID(context.Background(), "u-123")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "0912345678", rec.PhoneNumber)
	assert.Equal(t, []string{"0912345678"}, env.sender.sent)
}

func TestSearchUserNotFoundByRespCode(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	_, body := env.do(t, http.MethodGet, "/api/search-user?username=0999999999", "")
	assert.Equal(t, "01", body["respCode"])
	assert.Equal(t, "User not found", body["error"])
}

func TestSearchUserNotFoundByErrorBody(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	_, body := env.do(t, http.MethodGet, "/api/search-user?username=0888888888", "")
	assert.Equal(t, "01", body["respCode"])
	assert.Equal(t, "User not found", body["error"])
}

func TestSearchUserDeliveryFailure(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)
	env.sender.ok = false

	_, body := env.do(t, http.MethodGet, "/api/search-user?username=0912345678", "")
	assert.Equal(t, "02", body["respCode"])
	assert.Equal(t, "Failed to send OTP", body["error"])
}

func TestSearchUserUpstreamUnreachable(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	resp, body := env.do(t, http.MethodGet, "/api/search-user?username=0912345678", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "99", body["respCode"])
}

func TestSetPasswordMissingFields(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodPost, "/api/set-password", `{"userId":"u-123"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "userId and newPassword are required", body["error"])
}

func TestSetPasswordSuccessPassthrough(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodPost, "/api/set-password", `{"userId":"u-123","newPassword":"s3cret"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "00", body["respCode"])
	assert.Equal(t, "u-123", body["userId"])
}

func TestSetPasswordUpstreamError(t *testing.T) {
	ts := fakeUpstream(t)
	env := newTestEnv(t, ts.URL)

	resp, body := env.do(t, http.MethodPost, "/api/set-password", `{"userId":"u-broken","newPassword":"s3cret"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to set password", body["error"])

	backend := body["backend"].(map[string]interface{})
	assert.Equal(t, "99", backend["respCode"])
}

func TestSetPasswordNoResponse(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	resp, body := env.do(t, http.MethodPost, "/api/set-password", `{"userId":"u-123","newPassword":"s3cret"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "No response received from backend", body["error"])
}
