package sessionsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"sessions-to-notion/api/apierr"
)

type Client struct {
	Config     Config
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Config struct {
	BaseURL       string `split_words:"true" default:"https://api.app.sessions.us"`
	BookingPageID string `split_words:"true" default:"d4056e52-9d59-4fe5-9c87-da65f008879a"`
	TimeZone      string `split_words:"true" default:"UTC"`
}

// ListBookings returns the first page of bookings of the configured booking page.
func (c *Client) ListBookings(ctx context.Context) ([]Booking, error) {
	u := fmt.Sprintf("%s/api/booking-pages/%s/bookings?page=1",
		strings.TrimRight(c.Config.BaseURL, "/"), url.PathEscape(c.Config.BookingPageID))
	var bookings []Booking
	if err := c.get(ctx, "list bookings", u, &bookings); err != nil {
		return nil, err
	}
	c.Logger.Debug("bookings received", zap.Any("bookings", bookings))
	return bookings, nil
}

// ListParticipants returns every participant of the session, host included.
func (c *Client) ListParticipants(ctx context.Context, sessionID string) ([]Participant, error) {
	u := fmt.Sprintf("%s/api/sessions/%s/participants",
		strings.TrimRight(c.Config.BaseURL, "/"), url.PathEscape(sessionID))
	var participants []Participant
	if err := c.get(ctx, fmt.Sprintf("list participants of session %s", sessionID), u, &participants); err != nil {
		return nil, err
	}
	c.Logger.Debug("participants received", zap.String("session_id", sessionID), zap.Any("participants", participants))
	return participants, nil
}

func (c *Client) get(ctx context.Context, op, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apierr.Other(op, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return apierr.Transport(op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Transport(op, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierr.Status(op, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apierr.Other(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
