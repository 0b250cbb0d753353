package common

import (
	"context"
	"testing"
	"time"

	"travexe/src/config"
	"travexe/src/db"
	"travexe/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBooking(store *db.MemStore, id string, fields types.JSONB) {
	data := types.JSONB{
		"bookingId":     id,
		"userId":        "user1",
		"tripId":        "trip1",
		"bookingStatus": string(types.BOOKING_CONFIRMED),
		"currency":      "EUR",
		"totalPrice":    100.0,
	}
	for k, v := range fields {
		data[k] = v
	}
	store.Seed(db.Bookings, id, data)
}

func notificationsFor(t *testing.T, store *db.MemStore, userID string) []db.Document {
	t.Helper()
	docs, err := store.FindEq(context.Background(), db.Notifications, types.JSONB{"userId": userID})
	require.NoError(t, err)
	return docs
}

func TestSweepCompletesPastHotelBooking(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	seedBooking(store, "b1", types.JSONB{
		"bookingType":  string(types.BOOKING_TYPE_HOTEL),
		"hotelName":    "Mock Hotel",
		"checkOutDate": "2000-01-01",
	})

	result, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.HotelUpdated)
	assert.Equal(t, 0, result.FlightUpdated)
	assert.Equal(t, 1, result.TotalUpdated)

	doc, err := store.Get(context.Background(), db.Bookings, "b1")
	require.NoError(t, err)
	data := doc.Data()
	assert.Equal(t, string(types.BOOKING_COMPLETED), data["bookingStatus"])
	assert.NotNil(t, data["completedAt"])

	notifs := notificationsFor(t, store, "user1")
	assert.Len(t, notifs, 1)
	assert.Equal(t, "booking", notifs[0].Data()["type"])
}

func TestSweepCompletesPastFlightOnArrival(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	seedBooking(store, "f1", types.JSONB{
		"bookingType": string(types.BOOKING_TYPE_FLIGHT),
		"origin":      "CGK",
		"destination": "DPS",
		"arrivalDate": "2000-01-01T09:30:00Z",
	})

	result, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FlightUpdated)

	doc, _ := store.Get(context.Background(), db.Bookings, "f1")
	assert.Equal(t, string(types.BOOKING_COMPLETED), doc.Data()["bookingStatus"])
}

func TestSweepIgnoresFlightsWithoutArrivalDate(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	seedBooking(store, "f1", types.JSONB{
		"bookingType":   string(types.BOOKING_TYPE_FLIGHT),
		"origin":        "CGK",
		"destination":   "DPS",
		"departureDate": "2000-01-01T08:00:00Z",
	})

	result, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.FlightUpdated)

	doc, _ := store.Get(context.Background(), db.Bookings, "f1")
	assert.Equal(t, string(types.BOOKING_CONFIRMED), doc.Data()["bookingStatus"])
}

func TestSweepIsIdempotent(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	seedBooking(store, "b1", types.JSONB{
		"bookingType":  string(types.BOOKING_TYPE_HOTEL),
		"checkOutDate": "2000-01-01",
	})

	first, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalUpdated)

	second, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalUpdated)

	assert.Len(t, notificationsFor(t, store, "user1"), 1)
}

func TestSweepLeavesFutureAndTerminalBookingsAlone(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	future := time.Now().UTC().AddDate(0, 0, 30).Format(config.DATE_FORMAT)
	seedBooking(store, "future", types.JSONB{
		"bookingType":  string(types.BOOKING_TYPE_HOTEL),
		"checkOutDate": future,
	})
	seedBooking(store, "cancelled", types.JSONB{
		"bookingType":   string(types.BOOKING_TYPE_HOTEL),
		"bookingStatus": string(types.BOOKING_CANCELLED),
		"checkOutDate":  "2000-01-01",
	})

	result, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalUpdated)

	doc, _ := store.Get(context.Background(), db.Bookings, "cancelled")
	assert.Equal(t, string(types.BOOKING_CANCELLED), doc.Data()["bookingStatus"])
}

func TestSweepSkipsUnparseableDates(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	seedBooking(store, "bad", types.JSONB{
		"bookingType":  string(types.BOOKING_TYPE_HOTEL),
		"checkOutDate": "not-a-date",
	})
	seedBooking(store, "good", types.JSONB{
		"bookingType":  string(types.BOOKING_TYPE_HOTEL),
		"checkOutDate": "2000-01-01",
	})

	result, err := UpdateExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalUpdated)

	doc, _ := store.Get(context.Background(), db.Bookings, "bad")
	assert.Equal(t, string(types.BOOKING_CONFIRMED), doc.Data()["bookingStatus"])
}

func TestReminderPassSendsOncePerBooking(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	inThreeDays := time.Now().UTC().AddDate(0, 0, 3).Format(config.DATE_FORMAT)
	seedBooking(store, "f1", types.JSONB{
		"bookingType":   string(types.BOOKING_TYPE_FLIGHT),
		"origin":        "CGK",
		"destination":   "DPS",
		"departureDate": inThreeDays,
		"reminderSent":  false,
	})

	sent, err := SendTripReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	doc, _ := store.Get(context.Background(), db.Bookings, "f1")
	assert.Equal(t, true, doc.Data()["reminderSent"])
	assert.NotNil(t, doc.Data()["reminderSentAt"])

	reminders := notificationsFor(t, store, "user1")
	assert.Len(t, reminders, 1)
	assert.Equal(t, "reminder", reminders[0].Data()["type"])

	sent, err = SendTripReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, notificationsFor(t, store, "user1"), 1)
}

func TestReminderPassIgnoresOtherDates(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	now := time.Now().UTC()
	seedBooking(store, "tomorrow", types.JSONB{
		"bookingType": string(types.BOOKING_TYPE_HOTEL),
		"checkInDate": now.AddDate(0, 0, 1).Format(config.DATE_FORMAT),
	})
	seedBooking(store, "next-week", types.JSONB{
		"bookingType": string(types.BOOKING_TYPE_HOTEL),
		"checkInDate": now.AddDate(0, 0, 7).Format(config.DATE_FORMAT),
	})

	sent, err := SendTripReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestReminderPassMatchesHotelCheckIn(t *testing.T) {
	store := db.NewMemStore()
	db.NewStore(store)
	inThreeDays := time.Now().UTC().AddDate(0, 0, 3).Format(config.DATE_FORMAT)
	seedBooking(store, "h1", types.JSONB{
		"bookingType": string(types.BOOKING_TYPE_HOTEL),
		"hotelName":   "Seaside Resort",
		"checkInDate": inThreeDays,
	})

	sent, err := SendTripReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	reminders := notificationsFor(t, store, "user1")
	require.Len(t, reminders, 1)
	assert.Contains(t, reminders[0].Data()["body"], "Seaside Resort")
}
