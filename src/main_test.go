package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"travexe/src/db"
	"travexe/src/middlewares"
	"travexe/src/types"
	"travexe/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

type APITestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *db.MemStore
	Token  string
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("MOCK_AMADEUS_BOOKING", "true")

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("tripdate", tripDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	publicRoutes(router)
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = userHandlers(authorized)
		authorized = tripHandlers(authorized)
		authorized = destinationHandlers(authorized)
		authorized = wishlistHandlers(authorized)
		authorized = notificationHandlers(authorized)
		authorized = hotelHandlers(authorized)
		authorized = flightHandlers(authorized)
	}
	s.router = router
}

func (s *APITestSuite) SetupTest() {
	s.store = db.NewMemStore()
	db.NewStore(s.store)
	s.store.Seed(db.Users, "user-doc", types.JSONB{
		"uid":   "user1",
		"email": "user1@example.com",
		"name":  "Test User",
	})
	s.store.Seed(db.Trips, "trip1", types.JSONB{
		"tripId":    "trip1",
		"userId":    "user1",
		"tripName":  "Bali Getaway",
		"startDate": "2099-05-01",
		"endDate":   "2099-05-10",
	})
	token, err := utils.GenerateJWT("user1", "user1@example.com")
	s.Require().NoError(err)
	s.Token = token
}

func (s *APITestSuite) request(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) seedHotelBooking(id string, fields types.JSONB) {
	data := types.JSONB{
		"bookingId":            id,
		"userId":               "user1",
		"tripId":               "trip1",
		"bookingType":          string(types.BOOKING_TYPE_HOTEL),
		"bookingStatus":        string(types.BOOKING_CONFIRMED),
		"hotelName":            "Seaside Resort",
		"checkInDate":          "2099-05-02",
		"checkOutDate":         "2099-05-05",
		"cancellationDeadline": "2099-05-01",
		"currency":             "EUR",
		"totalPrice":           250.0,
		"paymentStatus":        string(types.PAYMENT_PAID),
	}
	for k, v := range fields {
		data[k] = v
	}
	s.store.Seed(db.Bookings, id, data)
}

func (s *APITestSuite) TestPingRoute() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestRejectsRequestWithoutToken() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")
	w := s.request(http.MethodGet, "/api/v1/trips", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *APITestSuite) TestCreateTrip() {
	w := s.request(http.MethodPost, "/api/v1/trips", types.JSONB{
		"tripName":  "Tokyo Spring",
		"startDate": "2099-04-01",
		"endDate":   "2099-04-08",
	})
	s.Equal(http.StatusCreated, w.Code)
	body := gjson.Parse(w.Body.String())
	s.True(body.Get("success").Bool())
	s.NotEmpty(body.Get("data.tripId").String())

	notifs, err := s.store.FindEq(context.Background(), db.Notifications, types.JSONB{"userId": "user1"})
	s.NoError(err)
	s.Len(notifs, 1)
}

func (s *APITestSuite) TestCreateTripRejectsReversedDates() {
	w := s.request(http.MethodPost, "/api/v1/trips", types.JSONB{
		"tripName":  "Backwards",
		"startDate": "2099-04-08",
		"endDate":   "2099-04-01",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestTripAccessControl() {
	s.store.Seed(db.Trips, "trip2", types.JSONB{
		"tripId":    "trip2",
		"userId":    "someone-else",
		"tripName":  "Not Yours",
		"startDate": "2099-06-01",
		"endDate":   "2099-06-05",
	})
	w := s.request(http.MethodGet, "/api/v1/trips/trip2", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodGet, "/api/v1/trips/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestUpdateTripRequiresAtLeastOneField() {
	w := s.request(http.MethodPut, "/api/v1/trips/trip1", types.JSONB{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "At least one field")
}

func (s *APITestSuite) TestDeleteTripRemovesBookings() {
	s.seedHotelBooking("b1", nil)
	w := s.request(http.MethodDelete, "/api/v1/trips/trip1", nil)
	s.Equal(http.StatusOK, w.Code)

	_, err := s.store.Get(context.Background(), db.Trips, "trip1")
	s.ErrorIs(err, db.ErrNotFound)
	_, err = s.store.Get(context.Background(), db.Bookings, "b1")
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *APITestSuite) TestHotelBookingRequiresGuests() {
	w := s.request(http.MethodPost, "/api/v1/hotels/bookings", types.JSONB{
		"offerId":       "OFFER1",
		"tripId":        "trip1",
		"guests":        []types.JSONB{},
		"paymentMethod": "credit_card",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "at least one passenger/guest is required")
}

func (s *APITestSuite) TestMockHotelBooking() {
	w := s.request(http.MethodPost, "/api/v1/hotels/bookings", types.JSONB{
		"offerId": "OFFER1",
		"tripId":  "trip1",
		"guests": []types.JSONB{
			{
				"name":    types.JSONB{"firstName": "Jane", "lastName": "Doe"},
				"contact": types.JSONB{"email": "jane@example.com", "phone": "+44123456789"},
			},
		},
		"paymentMethod": "credit_card",
	})
	s.Equal(http.StatusCreated, w.Code)
	body := gjson.Parse(w.Body.String())
	s.True(body.Get("success").Bool())
	s.True(body.Get("data.isMockBooking").Bool())
	s.Equal(string(types.BOOKING_CONFIRMED), body.Get("data.bookingStatus").String())
	s.True(strings.HasPrefix(body.Get("data.confirmationNumber").String(), "MOCK_"))
	s.Equal("Europe", body.Get("data.continent").String())
	s.Equal("Jane Doe", body.Get("data.primaryGuestName").String())
}

func (s *APITestSuite) TestMockFlightBooking() {
	w := s.request(http.MethodPost, "/api/v1/flights/bookings", types.JSONB{
		"tripId": "trip1",
		"flightOffer": types.JSONB{
			"id": "1",
			"itineraries": []types.JSONB{
				{
					"segments": []types.JSONB{
						{
							"departure":   types.JSONB{"iataCode": "CGK", "at": "2099-05-01T08:00:00"},
							"arrival":     types.JSONB{"iataCode": "DPS", "at": "2099-05-01T10:00:00"},
							"carrierCode": "GA",
							"number":      "402",
						},
					},
				},
			},
			"travelerPricings": []types.JSONB{
				{"fareDetailsBySegment": []types.JSONB{{"cabin": "ECONOMY"}}},
			},
			"price": types.JSONB{"total": "120.00", "base": "100.00", "currency": "EUR"},
		},
		"passengers": []types.JSONB{
			{
				"firstName":   "John",
				"lastName":    "Doe",
				"dateOfBirth": "1990-01-15",
				"email":       "john@example.com",
			},
		},
		"paymentMethod": "credit_card",
	})
	s.Equal(http.StatusCreated, w.Code)
	body := gjson.Parse(w.Body.String())
	s.True(strings.HasPrefix(body.Get("data.confirmationNumber").String(), "FLIGHT_"))
	s.Equal("CGK", body.Get("data.origin").String())
	s.Equal("DPS", body.Get("data.destination").String())
	s.Equal(int64(0), body.Get("data.numberOfStops").Int())
}

func (s *APITestSuite) TestFlightBookingRequiresPassengerDetails() {
	w := s.request(http.MethodPost, "/api/v1/flights/bookings", types.JSONB{
		"tripId":      "trip1",
		"flightOffer": types.JSONB{"id": "1"},
		"passengers": []types.JSONB{
			{"firstName": "John", "lastName": "Doe", "email": "john@example.com"},
		},
		"paymentMethod": "credit_card",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "dateOfBirth is required")
}

func (s *APITestSuite) TestCancelConfirmedHotelBooking() {
	s.seedHotelBooking("b1", nil)
	w := s.request(http.MethodDelete, "/api/v1/hotels/bookings/b1", nil)
	s.Equal(http.StatusOK, w.Code)

	doc, err := s.store.Get(context.Background(), db.Bookings, "b1")
	s.Require().NoError(err)
	s.Equal(string(types.BOOKING_CANCELLED), doc.Data()["bookingStatus"])
	s.Equal(string(types.PAYMENT_REFUNDED), doc.Data()["paymentStatus"])
}

func (s *APITestSuite) TestCancelHotelBookingAfterDeadline() {
	s.seedHotelBooking("b1", types.JSONB{"cancellationDeadline": "2000-01-01"})
	w := s.request(http.MethodDelete, "/api/v1/hotels/bookings/b1", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "cancellation deadline has passed")

	doc, _ := s.store.Get(context.Background(), db.Bookings, "b1")
	s.Equal(string(types.BOOKING_CONFIRMED), doc.Data()["bookingStatus"])
}

func (s *APITestSuite) TestCancelFlightBookingAfterDeparture() {
	s.store.Seed(db.Bookings, "f1", types.JSONB{
		"bookingId":     "f1",
		"userId":        "user1",
		"tripId":        "trip1",
		"bookingType":   string(types.BOOKING_TYPE_FLIGHT),
		"bookingStatus": string(types.BOOKING_CONFIRMED),
		"origin":        "CGK",
		"destination":   "DPS",
		"departureDate": "2000-01-01",
	})
	w := s.request(http.MethodDelete, "/api/v1/flights/bookings/f1", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "departure date has passed")
}

func (s *APITestSuite) TestCancelBookingTwice() {
	s.seedHotelBooking("b1", types.JSONB{"bookingStatus": string(types.BOOKING_CANCELLED)})
	w := s.request(http.MethodDelete, "/api/v1/hotels/bookings/b1", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "already cancelled")
}

func (s *APITestSuite) TestCancelSomeoneElsesBooking() {
	s.seedHotelBooking("b1", types.JSONB{"userId": "someone-else"})
	w := s.request(http.MethodDelete, "/api/v1/hotels/bookings/b1", nil)
	s.Equal(http.StatusForbidden, w.Code)

	doc, _ := s.store.Get(context.Background(), db.Bookings, "b1")
	s.Equal(string(types.BOOKING_CONFIRMED), doc.Data()["bookingStatus"])
}

func (s *APITestSuite) TestListHotelBookings() {
	s.seedHotelBooking("b1", types.JSONB{"totalPrice": 300.0})
	s.seedHotelBooking("b2", types.JSONB{"totalPrice": 100.0})
	s.seedHotelBooking("b3", types.JSONB{"totalPrice": 200.0, "bookingStatus": string(types.BOOKING_CANCELLED)})

	w := s.request(http.MethodGet, "/api/v1/hotels/bookings?sortBy=price&sortOrder=asc&limit=2", nil)
	s.Equal(http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	s.Equal(int64(2), body.Get("count").Int())
	s.Equal(int64(3), body.Get("pagination.totalItems").Int())
	s.Equal(int64(2), body.Get("pagination.totalPages").Int())
	s.True(body.Get("pagination.hasNextPage").Bool())
	s.Equal(100.0, body.Get("data.0.totalPrice").Float())

	w = s.request(http.MethodGet, "/api/v1/hotels/bookings?status=cancelled", nil)
	body = gjson.Parse(w.Body.String())
	s.Equal(int64(1), body.Get("count").Int())
	s.Equal("b3", body.Get("data.0.bookingId").String())
}

func (s *APITestSuite) TestListBookingsValidatesQuery() {
	w := s.request(http.MethodGet, "/api/v1/hotels/bookings?limit=100", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodGet, "/api/v1/hotels/bookings?sortBy=hotelName", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestListBookingsEmptyState() {
	w := s.request(http.MethodGet, "/api/v1/flights/bookings", nil)
	s.Equal(http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	s.Equal(int64(0), body.Get("count").Int())
	s.Equal("No Flight Bookings", body.Get("emptyState.title").String())
}

func (s *APITestSuite) TestBookingDetailIncludesTrip() {
	s.seedHotelBooking("b1", nil)
	w := s.request(http.MethodGet, "/api/v1/hotels/bookings/b1", nil)
	s.Equal(http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	s.Equal("Bali Getaway", body.Get("data.trip.tripName").String())
	s.Equal("b1", body.Get("data.id").String())
}

func (s *APITestSuite) TestWishlistRejectsDuplicates() {
	s.store.Seed(db.Destinations, "dest1", types.JSONB{
		"destinationId": "dest1",
		"name":          "Kyoto",
		"imageUrl":      "https://img.example.com/kyoto.jpg",
	})
	w := s.request(http.MethodPost, "/api/v1/wishlist", types.JSONB{"destinationId": "dest1"})
	s.Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodPost, "/api/v1/wishlist", types.JSONB{"destinationId": "dest1"})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), "already in your wishlist")
}

func (s *APITestSuite) TestNotificationsReadAll() {
	s.store.Seed(db.Notifications, "n1", types.JSONB{
		"notificationId": "n1", "userId": "user1", "type": "booking",
		"title": "Booking Confirmed!", "isRead": false,
	})
	s.store.Seed(db.Notifications, "n2", types.JSONB{
		"notificationId": "n2", "userId": "user1", "type": "reminder",
		"title": "Trip Coming Up!", "isRead": false,
	})

	w := s.request(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	s.Equal(int64(2), gjson.Parse(w.Body.String()).Get("unreadCount").Int())

	w = s.request(http.MethodPut, "/api/v1/notifications/read-all", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(2), gjson.Parse(w.Body.String()).Get("count").Int())

	w = s.request(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	s.Equal(int64(0), gjson.Parse(w.Body.String()).Get("unreadCount").Int())

	w = s.request(http.MethodPut, "/api/v1/notifications/read-all", nil)
	s.Contains(w.Body.String(), "No unread notifications to mark")
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
