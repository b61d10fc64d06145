// Package remote talks to a reservation service over the JSON API served by `tablebook server`
// (GET /api/availability, POST /api/bookings).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/domain/booking"
)

const userAgent = "tablebook/1.0"

type Client struct {
	hc   *http.Client
	base string

	// Retries is how many extra attempts an availability lookup gets after a network error.
	// Submissions are never retried here.
	Retries int
	Backoff time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		base:    strings.TrimRight(baseURL, "/"),
		Backoff: 200 * time.Millisecond,
	}
}

func (c *Client) Name() string { return "remote" }

type availabilityResponse struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type submitResponse struct {
	Accepted bool              `json:"accepted"`
	Message  string            `json:"message,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

func (c *Client) ResolveAvailability(ctx context.Context, date time.Time) ([]string, error) {
	q := map[string]string{"date": date.Format(booking.DateLayout)}
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, booking.NetworkError("availability", ctx.Err())
			case <-time.After(c.Backoff * time.Duration(attempt)):
			}
			log.Printf("remote: retrying availability (attempt %d): %v", attempt+1, lastErr)
		}
		times, err := c.fetchAvailability(ctx, q)
		if err == nil {
			return times, nil
		}
		if !booking.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) fetchAvailability(ctx context.Context, query map[string]string) ([]string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/availability", "", query, nil)
	if err != nil {
		return nil, booking.NetworkError("availability", err)
	}
	if status >= 500 {
		return nil, booking.NetworkError("availability", fmt.Errorf("status=%d", status))
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("availability failed (status=%d): %s", status, strings.TrimSpace(string(body)))
	}
	var res availabilityResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parse availability: %w", err)
	}
	return res.Times, nil
}

// SubmitBooking posts rec once. 409 and 422 are business rejections; transport failures and
// 5xx answers are network errors.
func (c *Client) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	jb, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	status, body, err := c.do(ctx, http.MethodPost, "/api/bookings", "application/json", nil, jb)
	if err != nil {
		return false, booking.NetworkError("submit", err)
	}
	if status >= 500 {
		return false, booking.NetworkError("submit", fmt.Errorf("status=%d", status))
	}

	var res submitResponse
	_ = json.Unmarshal(body, &res)
	switch {
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return false, fmt.Errorf("%w: %s", booking.ErrRejected, rejectionReason(status, res))
	case status >= 400:
		return false, fmt.Errorf("submit failed (status=%d)", status)
	}
	return res.Accepted, nil
}

func rejectionReason(status int, res submitResponse) string {
	if res.Message != "" {
		return res.Message
	}
	if len(res.Errors) > 0 {
		parts := make([]string, 0, len(res.Errors))
		for k, v := range res.Errors {
			parts = append(parts, k+": "+v)
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("status=%d", status)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, query map[string]string, body []byte) (int, []byte, error) {
	if c.base == "" {
		return 0, nil, errors.New("remote backend URL is empty")
	}
	u, err := url.Parse(c.base + path)
	if err != nil {
		return 0, nil, err
	}
	if query != nil {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("user-agent", userAgent)
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-request-id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("content-type", contentType)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
