package sessionsapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionIDs(bookings []Booking) []string {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.SessionID)
	}
	return ids
}

func TestSortBookings(t *testing.T) {
	bookings := []Booking{
		{SessionID: "B", StartAt: "2024-02-01"},
		{SessionID: "A", StartAt: "2024-01-01"},
	}
	SortBookings(bookings, "UTC")
	assert.Equal(t, []string{"A", "B"}, sessionIDs(bookings))
}

func TestSortBookingsMixedFormats(t *testing.T) {
	bookings := []Booking{
		{SessionID: "late", StartAt: "2024-03-05T09:30:00.000Z"},
		{SessionID: "offset", StartAt: "2024-03-05T10:00:00+02:00"},
		{SessionID: "early", StartAt: "2024-03-04"},
	}
	SortBookings(bookings, "UTC")
	assert.Equal(t, []string{"early", "offset", "late"}, sessionIDs(bookings))
}

func TestSortBookingsNonDecreasingAndIdempotent(t *testing.T) {
	bookings := []Booking{
		{SessionID: "3", StartAt: "2024-05-03T08:00:00Z"},
		{SessionID: "1", StartAt: "2024-05-01T08:00:00Z"},
		{SessionID: "2a", StartAt: "2024-05-02T08:00:00Z"},
		{SessionID: "2b", StartAt: "2024-05-02T08:00:00Z"},
		{SessionID: "0", StartAt: "2023-12-31T23:59:59Z"},
	}
	SortBookings(bookings, "UTC")
	for i := 1; i < len(bookings); i++ {
		prev, err := ParseStart(bookings[i-1].StartAt, "UTC")
		require.NoError(t, err)
		cur, err := ParseStart(bookings[i].StartAt, "UTC")
		require.NoError(t, err)
		assert.False(t, cur.Before(prev), "booking %d starts before booking %d", i, i-1)
	}
	first := sessionIDs(bookings)
	assert.Equal(t, []string{"0", "1", "2a", "2b", "3"}, first)
	SortBookings(bookings, "UTC")
	assert.Equal(t, first, sessionIDs(bookings))
}

func TestSortBookingsInvalidLast(t *testing.T) {
	bookings := []Booking{
		{SessionID: "bad1", StartAt: "not a date"},
		{SessionID: "b", StartAt: "2024-01-02"},
		{SessionID: "bad2", StartAt: ""},
		{SessionID: "a", StartAt: "2024-01-01"},
	}
	SortBookings(bookings, "UTC")
	assert.Equal(t, []string{"a", "b", "bad1", "bad2"}, sessionIDs(bookings))
}

func TestParseStart(t *testing.T) {
	got, err := ParseStart("2024-01-01T10:00:00.000Z", "UTC")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))

	got, err = ParseStart("2024-01-01", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Format("2006-01-02"))

	_, err = ParseStart("", "UTC")
	assert.Error(t, err)
	_, err = ParseStart("yesterday-ish", "UTC")
	assert.Error(t, err)
}

func TestSelectGuest(t *testing.T) {
	participants := []Participant{
		{IsOwner: true, User: &Identity{Email: "host@example.com", FirstName: "Host"}},
		{IsOwner: false, Guest: &Identity{Email: "x@y.com", FirstName: "Jo", LastName: "Lee"}},
		{IsOwner: false, Guest: &Identity{Email: "second@y.com"}},
	}
	p, ok := SelectGuest(participants)
	require.True(t, ok)
	assert.Equal(t, Identity{Email: "x@y.com", FirstName: "Jo", LastName: "Lee"}, p.Identity())
}

func TestSelectGuestOnlyOwners(t *testing.T) {
	_, ok := SelectGuest([]Participant{{IsOwner: true}, {IsOwner: true}})
	assert.False(t, ok)
	_, ok = SelectGuest(nil)
	assert.False(t, ok)
}

func TestIdentityFallsBackToUser(t *testing.T) {
	p := Participant{User: &Identity{Email: "user@y.com", FirstName: "Ann"}}
	assert.Equal(t, "user@y.com", p.Identity().Email)
	assert.Equal(t, Identity{}, Participant{}.Identity())
}
