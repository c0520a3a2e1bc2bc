package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ridehail/internal/client/models"
	"github.com/dmitrijs2005/ridehail/internal/common"
)

const (
	pathSendOtp         = "/auth/send-otp"
	pathVerifyOtp       = "/auth/verify-otp"
	pathCompleteProfile = "/auth/complete-profile"

	maxBodySize = 1 << 20
)

// TokenSource returns the access token to attach, or "" for none.
type TokenSource func() string

type Option func(*HTTPClient)

// WithTokenSource attaches "Authorization: Bearer <token>" whenever src
// returns a token.
func WithTokenSource(src TokenSource) Option {
	return func(c *HTTPClient) { c.token = src }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// HTTPClient implements Client with JSON over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second, Transport: transport},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) SendOtp(ctx context.Context, email string) (models.SendOtpResponse, error) {
	var resp models.SendOtpResponse
	err := c.post(ctx, OpSendOtp, pathSendOtp, models.SendOtpRequest{Email: email}, &resp)
	if err != nil {
		return models.SendOtpResponse{}, err
	}
	if resp.SessionID == "" || !resp.Type.Valid() {
		return models.SendOtpResponse{}, malformed(OpSendOtp, nil)
	}
	return resp, nil
}

func (c *HTTPClient) VerifyOtp(ctx context.Context, sessionID, otp string) (models.VerifyOtpResponse, error) {
	var resp models.VerifyOtpResponse
	err := c.post(ctx, OpVerifyOtp, pathVerifyOtp, models.VerifyOtpRequest{SessionID: sessionID, Otp: otp}, &resp)
	if err != nil {
		return models.VerifyOtpResponse{}, err
	}
	if resp.Token == "" || resp.User.Email == "" {
		return models.VerifyOtpResponse{}, malformed(OpVerifyOtp, nil)
	}
	return resp, nil
}

func (c *HTTPClient) CompleteProfile(ctx context.Context, req models.CompleteProfileRequest) (models.CompleteProfileResponse, error) {
	var resp models.CompleteProfileResponse
	if err := c.post(ctx, OpCompleteProfile, pathCompleteProfile, req, &resp); err != nil {
		return models.CompleteProfileResponse{}, err
	}
	if resp.User.Email == "" {
		return models.CompleteProfileResponse{}, malformed(OpCompleteProfile, nil)
	}
	return resp, nil
}

func (c *HTTPClient) post(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &Error{Op: op, Kind: ErrValidation, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if token := c.token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Kind: ErrNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return malformed(op, err)
	}
	return nil
}

func statusError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status, Kind: kindFor(op, status)}

	var er models.ErrorResponse
	if json.Unmarshal(body, &er) == nil {
		e.Message = er.Message
		e.Field = er.Field
	}
	return e
}

func malformed(op string, err error) *Error {
	return &Error{Op: op, Message: "malformed response", Kind: ErrServer, Err: err}
}
