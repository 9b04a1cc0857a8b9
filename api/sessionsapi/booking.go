package sessionsapi

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-module/carbon"
)

type Booking struct {
	SessionID string `json:"sessionId"`
	StartAt   string `json:"startAt"`
}

type Participant struct {
	IsOwner bool      `json:"isOwner"`
	Guest   *Identity `json:"guest,omitempty"`
	User    *Identity `json:"user,omitempty"`
}

type Identity struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Identity prefers the guest record and falls back to the registered user.
func (p Participant) Identity() Identity {
	if p.Guest != nil {
		return *p.Guest
	}
	if p.User != nil {
		return *p.User
	}
	return Identity{}
}

// SelectGuest returns the first participant that does not own the session.
func SelectGuest(participants []Participant) (Participant, bool) {
	for _, p := range participants {
		if !p.IsOwner {
			return p, true
		}
	}
	return Participant{}, false
}

// ParseStart parses a booking start time for ordering. Values without an offset
// are read in timeZone.
func ParseStart(startAt, timeZone string) (time.Time, error) {
	if startAt == "" {
		return time.Time{}, errors.New("empty start time")
	}
	if t, err := time.Parse(time.RFC3339Nano, startAt); err == nil {
		return t, nil
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	c := carbon.Parse(startAt, timeZone)
	if c.Error != nil {
		return time.Time{}, fmt.Errorf("parse start time %q: %w", startAt, c.Error)
	}
	return c.Carbon2Time(), nil
}

// SortBookings orders bookings by start time, earliest first. Bookings whose
// start time cannot be parsed go last, in their original order.
func SortBookings(bookings []Booking, timeZone string) {
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make([]key, len(bookings))
	idx := make([]int, len(bookings))
	for i, b := range bookings {
		t, err := ParseStart(b.StartAt, timeZone)
		keys[i] = key{t: t, ok: err == nil}
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		return ka.ok && ka.t.Before(kb.t)
	})
	sorted := make([]Booking, len(bookings))
	for i, j := range idx {
		sorted[i] = bookings[j]
	}
	copy(bookings, sorted)
}
