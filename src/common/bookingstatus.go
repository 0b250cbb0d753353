package common

import (
	"context"
	"log"
	"time"

	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"
	"travexe/src/utils"
)

type SweepResult struct {
	HotelUpdated  int `json:"hotelUpdated"`
	FlightUpdated int `json:"flightUpdated"`
	TotalUpdated  int `json:"totalUpdated"`
}

// UpdateExpiredBookings moves confirmed bookings whose stay or flight is in
// the past to COMPLETED. Hotel bookings complete after their check-out date,
// flight bookings after arrival. Bookings with unparseable dates are logged
// and skipped so one bad document never stalls the sweep.
func UpdateExpiredBookings(ctx context.Context) (*SweepResult, error) {
	now := time.Now().UTC()
	store := db.GetStore()
	result := &SweepResult{}
	updates := make([]db.Update, 0)
	completed := make([]*models.Booking, 0)

	hotels, err := store.FindEq(ctx, db.Bookings, types.JSONB{
		"bookingType":   string(types.BOOKING_TYPE_HOTEL),
		"bookingStatus": string(types.BOOKING_CONFIRMED),
	})
	if err != nil {
		return nil, err
	}
	for _, doc := range hotels {
		var booking models.Booking
		if err := doc.DataTo(&booking); err != nil {
			log.Printf("Error reading booking [%s]: %s\n", doc.ID(), err.Error())
			continue
		}
		booking.BookingID = doc.ID()
		if booking.CheckOutDate == "" {
			continue
		}
		checkOut, err := utils.ParseDate(booking.CheckOutDate)
		if err != nil {
			log.Printf("Skipping booking [%s], bad checkOutDate %q: %s\n", doc.ID(), booking.CheckOutDate, err.Error())
			continue
		}
		if checkOut.Before(now) {
			updates = append(updates, completionUpdate(doc.ID()))
			completed = append(completed, &booking)
			result.HotelUpdated++
		}
	}

	flights, err := store.FindEq(ctx, db.Bookings, types.JSONB{
		"bookingType":   string(types.BOOKING_TYPE_FLIGHT),
		"bookingStatus": string(types.BOOKING_CONFIRMED),
	})
	if err != nil {
		return nil, err
	}
	for _, doc := range flights {
		var booking models.Booking
		if err := doc.DataTo(&booking); err != nil {
			log.Printf("Error reading booking [%s]: %s\n", doc.ID(), err.Error())
			continue
		}
		booking.BookingID = doc.ID()
		if booking.ArrivalDate == "" {
			continue
		}
		arrival, err := utils.ParseDate(booking.ArrivalDate)
		if err != nil {
			log.Printf("Skipping booking [%s], bad arrivalDate %q: %s\n", doc.ID(), booking.ArrivalDate, err.Error())
			continue
		}
		if arrival.Before(now) {
			updates = append(updates, completionUpdate(doc.ID()))
			completed = append(completed, &booking)
			result.FlightUpdated++
		}
	}

	if len(updates) > 0 {
		if err := store.BatchUpdate(ctx, updates); err != nil {
			return nil, err
		}
	}
	result.TotalUpdated = result.HotelUpdated + result.FlightUpdated
	if result.TotalUpdated > 0 {
		log.Printf("[sweep] Completed %d bookings (%d hotel, %d flight)\n", result.TotalUpdated, result.HotelUpdated, result.FlightUpdated)
	}

	for _, booking := range completed {
		NotifyBookingCompleted(ctx, booking.UserID, booking.BookingID, booking.BookingType, bookingTitle(booking))
	}
	return result, nil
}

func completionUpdate(id string) db.Update {
	return db.Update{
		Collection: db.Bookings,
		DocID:      id,
		Fields: types.JSONB{
			"bookingStatus": string(types.BOOKING_COMPLETED),
			"completedAt":   db.ServerTimestamp,
			"updatedAt":     db.ServerTimestamp,
		},
	}
}

// SendTripReminders notifies users whose confirmed stay or departure is
// exactly three days out. The reminderSent flag is only set after the
// notification is stored, so a failed write gets retried on the next run.
func SendTripReminders(ctx context.Context) (int, error) {
	target := utils.Midnight(time.Now().UTC().AddDate(0, 0, 3))
	store := db.GetStore()
	sent := 0

	for _, bookingType := range []types.BookingType{types.BOOKING_TYPE_HOTEL, types.BOOKING_TYPE_FLIGHT} {
		docs, err := store.FindEq(ctx, db.Bookings, types.JSONB{
			"bookingType":   string(bookingType),
			"bookingStatus": string(types.BOOKING_CONFIRMED),
		})
		if err != nil {
			return sent, err
		}
		for _, doc := range docs {
			var booking models.Booking
			if err := doc.DataTo(&booking); err != nil {
				log.Printf("Error reading booking [%s]: %s\n", doc.ID(), err.Error())
				continue
			}
			booking.BookingID = doc.ID()
			if booking.ReminderSent {
				continue
			}
			dateStr := booking.CheckInDate
			if bookingType == types.BOOKING_TYPE_FLIGHT {
				dateStr = booking.DepartureDate
			}
			if dateStr == "" {
				continue
			}
			date, err := utils.ParseDate(dateStr)
			if err != nil {
				log.Printf("Skipping booking [%s], bad date %q: %s\n", doc.ID(), dateStr, err.Error())
				continue
			}
			if !utils.Midnight(date).Equal(target) {
				continue
			}
			if err := NotifyUpcomingReminder(ctx, booking.UserID, booking.BookingID, bookingType, bookingTitle(&booking), date.Format("2006-01-02")); err != nil {
				log.Printf("Error sending reminder for booking [%s]: %s\n", booking.BookingID, err.Error())
				continue
			}
			if err := store.Update(ctx, db.Bookings, booking.BookingID, types.JSONB{
				"reminderSent":   true,
				"reminderSentAt": db.ServerTimestamp,
				"updatedAt":      db.ServerTimestamp,
			}); err != nil {
				log.Printf("Error flagging reminder for booking [%s]: %s\n", booking.BookingID, err.Error())
				continue
			}
			sent++
		}
	}
	if sent > 0 {
		log.Printf("[reminders] Sent %d trip reminders\n", sent)
	}
	return sent, nil
}

func bookingTitle(b *models.Booking) string {
	if b.BookingType == types.BOOKING_TYPE_FLIGHT {
		if b.Origin != "" && b.Destination != "" {
			return b.Origin + " to " + b.Destination
		}
		return b.ConfirmationNumber
	}
	if b.HotelName != "" {
		return b.HotelName
	}
	return b.ConfirmationNumber
}
