package models

import (
	"time"
	"travexe/src/types"
)

// Booking is one reserved flight or hotel stay. Documents live in the
// "bookings" collection and are never deleted; cancellation and completion
// are status changes only.
type Booking struct {
	BookingID   string              `firestore:"bookingId" json:"bookingId"`
	UserID      string              `firestore:"userId" json:"userId"`
	TripID      string              `firestore:"tripId" json:"tripId"`
	BookingType types.BookingType   `firestore:"bookingType" json:"bookingType"`
	Status      types.BookingStatus `firestore:"bookingStatus" json:"bookingStatus"`

	OfferID                string `firestore:"offerId,omitempty" json:"offerId,omitempty"`
	ConfirmationNumber     string `firestore:"confirmationNumber" json:"confirmationNumber"`
	ProviderConfirmationID string `firestore:"providerConfirmationId,omitempty" json:"providerConfirmationId,omitempty"`
	IsMockBooking          bool   `firestore:"isMockBooking" json:"isMockBooking"`

	// Hotel bookings
	HotelID        string  `firestore:"hotelId,omitempty" json:"hotelId,omitempty"`
	HotelName      string  `firestore:"hotelName,omitempty" json:"hotelName,omitempty"`
	HotelChainCode string  `firestore:"hotelChainCode,omitempty" json:"hotelChainCode,omitempty"`
	HotelCityCode  string  `firestore:"hotelCityCode,omitempty" json:"hotelCityCode,omitempty"`
	HotelLatitude  float64 `firestore:"hotelLatitude,omitempty" json:"hotelLatitude,omitempty"`
	HotelLongitude float64 `firestore:"hotelLongitude,omitempty" json:"hotelLongitude,omitempty"`
	Continent      string  `firestore:"continent,omitempty" json:"continent,omitempty"`
	RoomType       string  `firestore:"roomType,omitempty" json:"roomType,omitempty"`
	RoomDescription string `firestore:"roomDescription,omitempty" json:"roomDescription,omitempty"`
	CheckInDate    string  `firestore:"checkInDate,omitempty" json:"checkInDate,omitempty"`
	CheckOutDate   string  `firestore:"checkOutDate,omitempty" json:"checkOutDate,omitempty"`

	// Flight bookings
	Origin          string `firestore:"origin,omitempty" json:"origin,omitempty"`
	Destination     string `firestore:"destination,omitempty" json:"destination,omitempty"`
	DepartureDate   string `firestore:"departureDate,omitempty" json:"departureDate,omitempty"`
	ArrivalDate     string `firestore:"arrivalDate,omitempty" json:"arrivalDate,omitempty"`
	Airline         string `firestore:"airline,omitempty" json:"airline,omitempty"`
	FlightNumber    string `firestore:"flightNumber,omitempty" json:"flightNumber,omitempty"`
	NumberOfStops   int    `firestore:"numberOfStops,omitempty" json:"numberOfStops,omitempty"`
	Cabin           string `firestore:"cabin,omitempty" json:"cabin,omitempty"`

	Currency   string  `firestore:"currency" json:"currency"`
	TotalPrice float64 `firestore:"totalPrice" json:"totalPrice"`
	BasePrice  float64 `firestore:"basePrice" json:"basePrice"`

	PaymentMethod string              `firestore:"paymentMethod" json:"paymentMethod"`
	PaymentStatus types.PaymentStatus `firestore:"paymentStatus" json:"paymentStatus"`

	CancellationDeadline string `firestore:"cancellationDeadline,omitempty" json:"cancellationDeadline,omitempty"`

	ReminderSent   bool       `firestore:"reminderSent,omitempty" json:"reminderSent,omitempty"`
	ReminderSentAt *time.Time `firestore:"reminderSentAt,omitempty" json:"reminderSentAt,omitempty"`
	CreatedAt      time.Time  `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time  `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	CancelledAt    *time.Time `firestore:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CompletedAt    *time.Time `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
}
