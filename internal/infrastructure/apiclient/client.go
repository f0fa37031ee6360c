package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"hospital-cms-portal/config"
	"hospital-cms-portal/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// Client issues JSON requests against the clinic REST API and normalizes every
// failure into an *entity.APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(cfg config.APIConfig, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// NewClientWithHTTP is used when the caller controls the transport (tests, proxies).
func NewClientWithHTTP(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// Request describes one backend call.
type Request struct {
	Method string
	// Segments are joined onto the base URL, each one path-escaped.
	Segments []string
	Query    url.Values
	Body     interface{}
	Bearer   string
}

// Path joins path segments, escaping each.
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// Do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	target := c.baseURL + Path(req.Segments...)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return &entity.APIError{Kind: entity.ErrorKindDecode, Message: "failed to encode request", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return &entity.APIError{Kind: entity.ErrorKindTransport, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the full URL, which may carry a token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		c.log.WithFields(logrus.Fields{"method": req.Method, "path": firstSegment(req.Segments)}).Warnf("Backend request failed: %+v", err)
		return &entity.APIError{Kind: entity.ErrorKindTransport, Message: "the server could not be reached, please try again later", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.APIError{Kind: entity.ErrorKindTransport, Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &entity.APIError{Kind: entity.ErrorKindDecode, Status: resp.StatusCode, Message: "unexpected response from server", Err: err}
	}
	return nil
}

// MessageBody is the {message} / {error} envelope most endpoints answer with.
type MessageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Text returns whichever of message or error is set.
func (m MessageBody) Text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

// TokenBody is the login response envelope.
type TokenBody struct {
	Token string `json:"token"`
}

// ErrEmptyToken is wrapped when a login succeeds without handing out a token.
var ErrEmptyToken = errors.New("login response carried no token")

// RequireToken turns an empty login token into a decode failure.
func (t TokenBody) RequireToken() (string, error) {
	if t.Token == "" {
		return "", &entity.APIError{Kind: entity.ErrorKindDecode, Message: "login failed, no token received", Err: ErrEmptyToken}
	}
	return t.Token, nil
}

// firstSegment keeps tokens that travel in later path segments out of the logs.
func firstSegment(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return "/" + segments[0]
}

func statusError(status int, raw []byte) *entity.APIError {
	var envelope MessageBody
	_ = json.Unmarshal(raw, &envelope)
	message := envelope.Text()
	if message == "" {
		message = http.StatusText(status)
	}

	kind := entity.ErrorKindStatus
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = entity.ErrorKindUnauthorized
	case http.StatusNotFound:
		kind = entity.ErrorKindNotFound
	}

	return &entity.APIError{
		Kind:    kind,
		Status:  status,
		Message: message,
		Err:     fmt.Errorf("unexpected status %d", status),
	}
}
