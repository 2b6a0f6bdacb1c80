// Package client talks to the back-office API on behalf of admin tools.
package client

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
	"time"

	"github.com/phbpx/prits"
)

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Code       string            `json:"code"`
	Message    string            `json:"error"`
	Fields     map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Is matches the root package sentinels by status code, so callers can test
// errors.Is(err, prits.ErrUnauthorized) across the wire.
func (e *Error) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == prits.ErrUnauthorized || target == prits.ErrInvalidCredentials
	case http.StatusNotFound:
		return prits.IsNotFound(target)
	}
	return false
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithToken sets the session token sent as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the session token in use, if any.
func (c *Client) Token() string {
	return c.token
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login opens a session and uses its token for every later call.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &s); err != nil {
		return Session{}, err
	}
	c.token = s.Token
	return s, nil
}

func (c *Client) Enquiries(ctx context.Context) ([]prits.Enquiry, error) {
	var out []prits.Enquiry
	err := c.do(ctx, http.MethodGet, "/enquiries", nil, &out)
	return out, err
}

func (c *Client) SetEnquiryStatus(ctx context.Context, id string, status prits.Status) (prits.Enquiry, error) {
	var out prits.Enquiry
	err := c.do(ctx, http.MethodPatch, "/enquiries/"+url.PathEscape(id)+"/status", statusBody(status), &out)
	return out, err
}

func (c *Client) DeleteEnquiry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/enquiries/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ServiceEnquiries(ctx context.Context) ([]prits.ServiceEnquiry, error) {
	var out []prits.ServiceEnquiry
	err := c.do(ctx, http.MethodGet, "/service-enquiries", nil, &out)
	return out, err
}

func (c *Client) SetServiceEnquiryStatus(ctx context.Context, id string, status prits.Status) (prits.ServiceEnquiry, error) {
	var out prits.ServiceEnquiry
	err := c.do(ctx, http.MethodPatch, "/service-enquiries/"+url.PathEscape(id)+"/status", statusBody(status), &out)
	return out, err
}

func (c *Client) DeleteServiceEnquiry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/service-enquiries/"+url.PathEscape(id), nil, nil)
}

// Testimonials lists every testimonial, inactive ones included.
func (c *Client) Testimonials(ctx context.Context) ([]prits.Testimonial, error) {
	var out []prits.Testimonial
	err := c.do(ctx, http.MethodGet, "/admin/testimonials", nil, &out)
	return out, err
}

func (c *Client) CreateTestimonial(ctx context.Context, nt prits.NewTestimonial) (prits.Testimonial, error) {
	var out prits.Testimonial
	err := c.do(ctx, http.MethodPost, "/testimonials", nt, &out)
	return out, err
}

func (c *Client) UpdateTestimonial(ctx context.Context, tu prits.TestimonialUpdate) (prits.Testimonial, error) {
	var out prits.Testimonial
	err := c.do(ctx, http.MethodPut, "/testimonials", tu, &out)
	return out, err
}

func (c *Client) ToggleTestimonial(ctx context.Context, id string) (prits.Testimonial, error) {
	var out prits.Testimonial
	err := c.do(ctx, http.MethodPost, "/testimonials/"+url.PathEscape(id)+"/toggle", nil, &out)
	return out, err
}

func (c *Client) DeleteTestimonial(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/testimonials", map[string]string{"id": id}, nil)
}

func (c *Client) Stats(ctx context.Context) (prits.Stats, error) {
	var out prits.Stats
	err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &out)
	return out, err
}

func statusBody(status prits.Status) map[string]string {
	return map[string]string{"status": string(status)}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if len(raw) > 0 {
			// A body that is not the usual error envelope still yields the status.
			_ = json.Unmarshal(raw, apiErr)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// IsUnauthorized reports whether err is a rejected session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, prits.ErrUnauthorized)
}
