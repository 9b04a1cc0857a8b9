package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"sessions-to-notion/api/apierr"
	"sessions-to-notion/api/notionapi"
	"sessions-to-notion/api/sessionsapi"
)

type BookingSource interface {
	ListBookings(ctx context.Context) ([]sessionsapi.Booking, error)
	ListParticipants(ctx context.Context, sessionID string) ([]sessionsapi.Participant, error)
}

type ContactStore interface {
	EnsureDatabase(ctx context.Context) error
	UpsertContact(ctx context.Context, contact notionapi.Contact) (notionapi.Upsert, error)
}

type App struct {
	SessionsAPI BookingSource
	NotionAPI   ContactStore
	Settings    sessionsapi.Config
	Logger      *zap.Logger
}

type Status string

const (
	StatusUpdated Status = "updated"
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type SkipReason string

const (
	SkipNoGuest SkipReason = "no non-host participant"
	SkipNoEmail SkipReason = "participant has no email"
)

// Outcome is what happened to a single booking.
type Outcome struct {
	SessionID string
	Email     string
	PageID    string
	Status    Status
	Reason    SkipReason
	Err       error
}

type Report struct {
	Outcomes []Outcome
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Run syncs the guests of every booking into Notion, oldest booking first.
// Only a failure to list the bookings is returned as an error; per-booking
// failures are recorded in the report.
func (a *App) Run(ctx context.Context) (*Report, error) {
	a.Logger.Info("running")
	defer a.Logger.Info("stopped")
	if err := a.NotionAPI.EnsureDatabase(ctx); err != nil {
		a.Logger.Error("failed to ensure database", apierr.Fields(err)...)
		return nil, fmt.Errorf("ensure database: %w", err)
	}
	bookings, err := a.SessionsAPI.ListBookings(ctx)
	if err != nil {
		a.Logger.Error("failed to list bookings", apierr.Fields(err)...)
		return nil, err
	}
	report := &Report{}
	if len(bookings) == 0 {
		a.Logger.Info("no bookings found")
		return report, nil
	}
	sessionsapi.SortBookings(bookings, a.Settings.TimeZone)
	a.Logger.Debug("sorted bookings", zap.Any("bookings", bookings))
	for _, b := range bookings {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, a.syncBooking(ctx, b))
	}
	a.Logger.Info("sync finished",
		zap.Int("bookings", len(bookings)),
		zap.Int("updated", report.Count(StatusUpdated)),
		zap.Int("created", report.Count(StatusCreated)),
		zap.Int("skipped", report.Count(StatusSkipped)),
		zap.Int("failed", report.Count(StatusFailed)),
	)
	return report, nil
}

func (a *App) syncBooking(ctx context.Context, b sessionsapi.Booking) Outcome {
	out := Outcome{SessionID: b.SessionID}
	logger := a.Logger.With(zap.String("session_id", b.SessionID))
	participants, err := a.SessionsAPI.ListParticipants(ctx, b.SessionID)
	if err != nil {
		logger.Error("failed to list participants", apierr.Fields(err)...)
		out.Status, out.Err = StatusFailed, err
		return out
	}
	guest, ok := sessionsapi.SelectGuest(participants)
	if !ok {
		logger.Info("no non-host participants found")
		out.Status, out.Reason = StatusSkipped, SkipNoGuest
		return out
	}
	id := guest.Identity()
	out.Email = id.Email
	if id.Email == "" {
		logger.Debug("participant has no email")
		out.Status, out.Reason = StatusSkipped, SkipNoEmail
		return out
	}
	res, err := a.NotionAPI.UpsertContact(ctx, notionapi.Contact{
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		DemoDate:  b.StartAt,
	})
	out.PageID = string(res.PageID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to %s contact", upsertVerb(res.Action)),
			append(apierr.Fields(err), zap.String("email", id.Email), zap.String("page_id", out.PageID))...)
		out.Status, out.Err = StatusFailed, err
		return out
	}
	if res.Action == notionapi.ActionUpdated {
		out.Status = StatusUpdated
	} else {
		out.Status = StatusCreated
	}
	return out
}

func upsertVerb(a notionapi.Action) string {
	if a == notionapi.ActionUpdated {
		return "update"
	}
	return "create"
}
