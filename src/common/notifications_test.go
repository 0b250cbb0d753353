package common

import (
	"context"
	"testing"

	"travexe/src/db"
	"travexe/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureEmails(t *testing.T) *[]string {
	t.Helper()
	sent := make([]string, 0)
	orig := deliverEmail
	deliverEmail = func(recipient, subject, body string) {
		sent = append(sent, recipient+"|"+subject)
	}
	t.Cleanup(func() { deliverEmail = orig })
	return &sent
}

func TestNotificationFansOutEmailToTheUser(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	store.Seed(db.Users, "u1-doc", types.JSONB{"uid": "user1", "email": "user1@example.com"})
	sent := captureEmails(t)

	NotifyBookingSuccess(context.Background(), "user1", "b1", types.BOOKING_TYPE_HOTEL, "Seaside Resort")

	require.Len(t, *sent, 1)
	assert.Equal(t, "user1@example.com|Booking confirmed", (*sent)[0])

	notifs, err := store.FindEq(context.Background(), db.Notifications, types.JSONB{"userId": "user1"})
	require.NoError(t, err)
	assert.Len(t, notifs, 1)
}

func TestNotificationSkipsEmailForUnknownUser(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	sent := captureEmails(t)

	NotifyWelcome(context.Background(), "ghost", "Ghost")

	assert.Empty(t, *sent)
	notifs, err := store.FindEq(context.Background(), db.Notifications, types.JSONB{"userId": "ghost"})
	require.NoError(t, err)
	assert.Len(t, notifs, 1)
}

func TestReminderEmailsAlongsideNotification(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	store.Seed(db.Users, "u1-doc", types.JSONB{"uid": "user1", "email": "user1@example.com"})
	sent := captureEmails(t)

	err := NotifyUpcomingReminder(context.Background(), "user1", "b1", types.BOOKING_TYPE_FLIGHT, "CGK to DPS", "2099-05-01")
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	assert.Equal(t, "user1@example.com|Upcoming trip reminder", (*sent)[0])
}
