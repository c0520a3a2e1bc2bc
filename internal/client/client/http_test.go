package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ridehail/internal/client/models"
	"github.com/dmitrijs2005/ridehail/internal/common"
)

// fakeAPI is an echo router standing in for the auth backend.
type fakeAPI struct {
	e *echo.Echo

	status  int
	body    any
	delay   time.Duration
	headers http.Header
	req     map[string]any
}

func newFakeAPI(t *testing.T, path string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{e: echo.New(), status: http.StatusOK}
	f.e.POST(path, func(c echo.Context) error {
		f.headers = c.Request().Header.Clone()
		f.req = map[string]any{}
		if err := json.NewDecoder(c.Request().Body).Decode(&f.req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-c.Request().Context().Done():
				return nil
			}
		}
		if f.body == nil {
			return c.NoContent(f.status)
		}
		return c.JSON(f.status, f.body)
	})
	srv := httptest.NewServer(f.e)
	t.Cleanup(srv.Close)
	return f, srv
}

func verifiedResponse() models.VerifyOtpResponse {
	return models.VerifyOtpResponse{
		Message:      "OTP verified",
		NeedsProfile: true,
		Type:         "signup",
		Token:        "tok-1",
		User:         models.User{ID: 1, Email: "ama@example.com", IsVerified: true},
	}
}

func TestHTTPClient_SendOtp(t *testing.T) {
	api, srv := newFakeAPI(t, pathSendOtp)
	api.body = models.SendOtpResponse{Message: "sent", IsNewUser: true, Type: models.OtpTypeSignup, SessionID: "sess-1"}

	c := NewHTTPClient(srv.URL + "/")
	resp, err := c.SendOtp(context.Background(), "ama@example.com")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, models.OtpTypeSignup, resp.Type)
	assert.True(t, resp.IsNewUser)

	assert.Equal(t, "application/json", api.headers.Get("Content-Type"))
	_, err = uuid.Parse(api.headers.Get(common.RequestIDHeaderName))
	assert.NoError(t, err)
	assert.Empty(t, api.headers.Get(common.AuthorizationHeaderName))
	assert.Equal(t, map[string]any{"email": "ama@example.com"}, api.req)
}

func TestHTTPClient_AttachesBearerToken(t *testing.T) {
	api, srv := newFakeAPI(t, pathCompleteProfile)
	api.body = models.CompleteProfileResponse{Token: "tok-2", User: models.User{Email: "ama@example.com", ProfileCompleted: true}}

	c := NewHTTPClient(srv.URL, WithTokenSource(func() string { return "tok-1" }))
	resp, err := c.CompleteProfile(context.Background(), models.CompleteProfileRequest{
		Name: "Ama", Email: "ama@example.com", Phone: "0501234567", CountryCode: "GH", Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-2", resp.Token)
	assert.Equal(t, "Bearer tok-1", api.headers.Get(common.AuthorizationHeaderName))
}

func TestHTTPClient_VerifyOtp(t *testing.T) {
	api, srv := newFakeAPI(t, pathVerifyOtp)
	api.body = verifiedResponse()

	c := NewHTTPClient(srv.URL)
	resp, err := c.VerifyOtp(context.Background(), "sess-1", "123456")
	require.NoError(t, err)

	assert.Equal(t, verifiedResponse(), resp)
	assert.Equal(t, map[string]any{"sessionId": "sess-1", "otp": "123456"}, api.req)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   error
	}{
		{"send 500", pathSendOtp, http.StatusInternalServerError, ErrServer},
		{"send 503", pathSendOtp, http.StatusServiceUnavailable, ErrServer},
		{"send 429", pathSendOtp, http.StatusTooManyRequests, ErrRateLimited},
		{"send 409", pathSendOtp, http.StatusConflict, ErrDuplicateAccount},
		{"send 400", pathSendOtp, http.StatusBadRequest, ErrValidation},
		{"send 404", pathSendOtp, http.StatusNotFound, ErrValidation},
		{"verify 400", pathVerifyOtp, http.StatusBadRequest, ErrInvalidCode},
		{"verify 401", pathVerifyOtp, http.StatusUnauthorized, ErrExpiredSession},
		{"verify 404", pathVerifyOtp, http.StatusNotFound, ErrExpiredSession},
		{"verify 410", pathVerifyOtp, http.StatusGone, ErrExpiredSession},
		{"verify 429", pathVerifyOtp, http.StatusTooManyRequests, ErrRateLimited},
		{"verify 422", pathVerifyOtp, http.StatusUnprocessableEntity, ErrValidation},
		{"profile 409", pathCompleteProfile, http.StatusConflict, ErrDuplicateAccount},
		{"profile 400", pathCompleteProfile, http.StatusBadRequest, ErrValidation},
		{"profile 502", pathCompleteProfile, http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t, tt.path)
			api.status = tt.status
			api.body = models.ErrorResponse{Message: "nope", Field: "email"}

			c := NewHTTPClient(srv.URL)
			var err error
			switch tt.path {
			case pathSendOtp:
				_, err = c.SendOtp(context.Background(), "ama@example.com")
			case pathVerifyOtp:
				_, err = c.VerifyOtp(context.Background(), "sess-1", "123456")
			default:
				_, err = c.CompleteProfile(context.Background(), models.CompleteProfileRequest{})
			}

			require.ErrorIs(t, err, tt.want)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Message)
			assert.Equal(t, "email", apiErr.Field)
		})
	}
}

func TestHTTPClient_ErrorWithoutBody(t *testing.T) {
	api, srv := newFakeAPI(t, pathSendOtp)
	api.status = http.StatusTooManyRequests

	_, err := NewHTTPClient(srv.URL).SendOtp(context.Background(), "ama@example.com")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, err.Error(), "too many requests")
}

func TestHTTPClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url).SendOtp(context.Background(), "ama@example.com")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPClient_Timeout(t *testing.T) {
	api, srv := newFakeAPI(t, pathSendOtp)
	api.delay = time.Second

	_, err := NewHTTPClient(srv.URL, WithTimeout(20*time.Millisecond)).SendOtp(context.Background(), "ama@example.com")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	api, srv := newFakeAPI(t, pathSendOtp)
	api.delay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewHTTPClient(srv.URL).SendOtp(ctx, "ama@example.com")
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_MalformedResponses(t *testing.T) {
	t.Run("send without session id", func(t *testing.T) {
		api, srv := newFakeAPI(t, pathSendOtp)
		api.body = models.SendOtpResponse{Type: models.OtpTypeLogin}

		_, err := NewHTTPClient(srv.URL).SendOtp(context.Background(), "ama@example.com")
		require.ErrorIs(t, err, ErrServer)
	})

	t.Run("verify without token", func(t *testing.T) {
		api, srv := newFakeAPI(t, pathVerifyOtp)
		resp := verifiedResponse()
		resp.Token = ""
		api.body = resp

		_, err := NewHTTPClient(srv.URL).VerifyOtp(context.Background(), "sess-1", "123456")
		require.ErrorIs(t, err, ErrServer)
	})

	t.Run("body is not json", func(t *testing.T) {
		api, srv := newFakeAPI(t, pathCompleteProfile)
		api.body = "plain text"

		_, err := NewHTTPClient(srv.URL).CompleteProfile(context.Background(), models.CompleteProfileRequest{})
		require.ErrorIs(t, err, ErrServer)
	})
}

func TestError_Error(t *testing.T) {
	e := &Error{Op: OpSendOtp, Status: 500, Kind: ErrServer}
	assert.Equal(t, "send-otp: 500 server error", e.Error())

	e = &Error{Op: OpSendOtp, Kind: ErrNetwork, Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "send-otp: network unreachable: dial tcp: refused", e.Error())

	e = NewValidationError(OpVerifyOtp, "otp", "code must be 6 digits")
	assert.Equal(t, "verify-otp: code must be 6 digits", e.Error())
	assert.ErrorIs(t, e, ErrValidation)

	e = &Error{Op: OpSendOtp, Status: 409, Kind: ErrDuplicateAccount}
	assert.ErrorIs(t, e, ErrDuplicateAccount)
	assert.ErrorIs(t, e, ErrValidation)
	assert.NotErrorIs(t, e, ErrServer)
}
