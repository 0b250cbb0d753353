package types

type JSONB map[string]any

type BookingType string

const (
	BOOKING_TYPE_HOTEL  BookingType = "hotel"
	BOOKING_TYPE_FLIGHT BookingType = "flight"
)

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "CONFIRMED"
	BOOKING_CANCELLED BookingStatus = "CANCELLED"
	BOOKING_COMPLETED BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

type Environment string

const (
	Production  Environment = "production"
	Test        Environment = "test"
	Development Environment = "local"
)

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type CreateTripRequestBody struct {
	TripName    string `json:"tripName" binding:"required"`
	StartDate   string `json:"startDate" binding:"required,tripdate"`
	EndDate     string `json:"endDate" binding:"required,tripdate,gtdate=StartDate"`
	Notes       string `json:"notes,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	Destination string `json:"destination,omitempty"`
}

type UpdateTripRequestBody struct {
	TripName   *string `json:"tripName,omitempty"`
	StartDate  *string `json:"startDate,omitempty" binding:"omitempty,tripdate"`
	EndDate    *string `json:"endDate,omitempty" binding:"omitempty,tripdate"`
	Notes      *string `json:"notes,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
}

type GuestName struct {
	Title     string `json:"title,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type GuestContact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type HotelGuest struct {
	Name    GuestName    `json:"name"`
	Contact GuestContact `json:"contact"`
}

type CreateHotelBookingRequestBody struct {
	OfferID       string       `json:"offerId" binding:"required"`
	TripID        string       `json:"tripId" binding:"required"`
	Guests        []HotelGuest `json:"guests"`
	PaymentMethod string       `json:"paymentMethod" binding:"required"`
	Payments      []JSONB      `json:"payments,omitempty"`
}

type FlightPassenger struct {
	Type           string `json:"type,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DateOfBirth    string `json:"dateOfBirth"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
}

type CreateFlightBookingRequestBody struct {
	TripID        string            `json:"tripId" binding:"required"`
	FlightOffer   JSONB             `json:"flightOffer" binding:"required"`
	Passengers    []FlightPassenger `json:"passengers"`
	SelectedSeats []string          `json:"selectedSeats,omitempty"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
}

type BookingListQuery struct {
	TripID    string  `form:"tripId"`
	Status    string  `form:"status"`
	StartDate string  `form:"startDate"`
	EndDate   string  `form:"endDate"`
	MinPrice  float64 `form:"minPrice"`
	MaxPrice  float64 `form:"maxPrice"`
	Continent string  `form:"continent"`
	SortBy    string  `form:"sortBy,default=createdAt"`
	SortOrder string  `form:"sortOrder,default=desc"`
	Page      int     `form:"page,default=1"`
	Limit     int     `form:"limit,default=10"`
}

type AddWishlistRequestBody struct {
	DestinationID string `json:"destinationId" binding:"required"`
}

type Handler func(payload string)

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}
