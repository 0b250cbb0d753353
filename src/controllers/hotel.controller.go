package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"travexe/src/common"
	"travexe/src/config"
	"travexe/src/db"
	"travexe/src/lib"
	"travexe/src/types"
	"travexe/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

var continentByCityCode = map[string]string{
	"DPS": "Asia", "JKT": "Asia", "CGK": "Asia", "SIN": "Asia",
	"BKK": "Asia", "HKG": "Asia", "TYO": "Asia", "NRT": "Asia",
	"DEL": "Asia", "BOM": "Asia", "DXB": "Asia",
	"LON": "Europe", "LHR": "Europe", "PAR": "Europe", "CDG": "Europe",
	"AMS": "Europe", "FCO": "Europe", "MAD": "Europe", "BCN": "Europe",
	"FRA": "Europe", "MUC": "Europe", "VIE": "Europe", "ZRH": "Europe",
	"NYC": "America", "JFK": "America", "LAX": "America", "MIA": "America",
	"CHI": "America", "ORD": "America", "YYZ": "America", "MEX": "America",
	"SYD": "Oceania", "MEL": "Oceania", "AKL": "Oceania",
	"JNB": "Africa", "CPT": "Africa", "CAI": "Africa",
}

func continentForCityCode(code string) string {
	if c, ok := continentByCityCode[strings.ToUpper(code)]; ok {
		return c
	}
	return "Unknown"
}

func validateGuests(guests []types.HotelGuest) error {
	if len(guests) == 0 {
		return errors.New("at least one passenger/guest is required")
	}
	for i, guest := range guests {
		if guest.Name.FirstName == "" || guest.Name.LastName == "" {
			return fmt.Errorf("guest %d: firstName and lastName are required", i+1)
		}
		if guest.Contact.Email == "" {
			return fmt.Errorf("guest %d: email is required", i+1)
		}
		if guest.Contact.Phone == "" {
			return fmt.Errorf("guest %d: phone number is required", i+1)
		}
		if !utils.ValidEmail(guest.Contact.Email) {
			return fmt.Errorf("guest %d: invalid email format", i+1)
		}
	}
	return nil
}

// CreateHotelBooking finalizes a hotel reservation against a previously
// retrieved offer and persists the denormalized booking document. With
// MOCK_AMADEUS_BOOKING=true the supplier call is replaced with a fabricated
// response; the stored booking behaves identically either way.
func CreateHotelBooking(ctx *gin.Context) (types.JSONB, int, error) {
	uid := ctx.GetString("uid")
	var body types.CreateHotelBookingRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if err := validateGuests(body.Guests); err != nil {
		return nil, http.StatusBadRequest, err
	}

	store := db.GetStore()
	tripDoc, err := store.Get(ctx, db.Trips, body.TripID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, http.StatusNotFound, errors.New("trip not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	if owner, _ := tripDoc.Data()["userId"].(string); owner != uid {
		return nil, http.StatusForbidden, errors.New("you don't have permission to add booking to this trip")
	}

	mock := config.MockAmadeusBooking()
	var order gjson.Result
	if mock {
		log.Println("MOCK MODE: simulating hotel booking response")
		order = mockHotelOrder(body.Guests)
	} else {
		res, err := lib.GetAmadeusClient().CreateHotelOrder(ctx, types.JSONB{
			"type":             "hotel-order",
			"guests":           guestsPayload(body.Guests),
			"roomAssociations": []types.JSONB{{"hotelOfferId": body.OfferID}},
			"payment":          body.Payments,
		})
		if err != nil {
			var aerr *lib.AmadeusError
			if errors.As(err, &aerr) {
				msg := strings.ToLower(aerr.Message)
				if strings.Contains(msg, "not found") || aerr.StatusCode == http.StatusNotFound {
					return nil, http.StatusNotFound, errors.New("offer not found or has expired, please search for offers again")
				}
				if strings.Contains(msg, "not available") || aerr.StatusCode == http.StatusConflict {
					return nil, http.StatusConflict, errors.New("room is no longer available, please select another offer")
				}
			}
			return nil, http.StatusBadGateway, err
		}
		order = res.Get("data.0")
		if !order.Exists() {
			order = res.Get("data")
		}
	}

	bookingStatus := order.Get("bookingStatus").String()
	if bookingStatus == "" {
		bookingStatus = string(types.BOOKING_CONFIRMED)
	}
	if bookingStatus != string(types.BOOKING_CONFIRMED) && bookingStatus != "PENDING" {
		return nil, http.StatusBadRequest, fmt.Errorf("booking failed with status %s, please try again or contact support", bookingStatus)
	}
	providerConfirmationID := order.Get("providerConfirmationId").String()
	if providerConfirmationID == "" {
		providerConfirmationID = order.Get("associatedRecords.0.reference").String()
	}
	if providerConfirmationID == "" {
		providerConfirmationID = order.Get("id").String()
	}

	hotel := order.Get("hotel")
	room := order.Get("room")
	price := order.Get("price")
	cityCode := hotel.Get("cityCode").String()
	if cityCode == "" {
		cityCode = hotel.Get("iataCode").String()
	}

	totalPrice, _ := strconv.ParseFloat(price.Get("total").String(), 64)
	basePrice, _ := strconv.ParseFloat(price.Get("base").String(), 64)
	currency := price.Get("currency").String()
	if currency == "" {
		currency = "EUR"
	}
	roomDescription := room.Get("description.text").String()
	if roomDescription == "" {
		roomDescription = room.Get("typeEstimated.category").String()
	}

	bookingData := types.JSONB{
		"userId":      uid,
		"tripId":      body.TripID,
		"bookingType": string(types.BOOKING_TYPE_HOTEL),

		"offerId":                body.OfferID,
		"confirmationNumber":     providerConfirmationID,
		"bookingStatus":          bookingStatus,
		"providerConfirmationId": providerConfirmationID,
		"isMockBooking":          mock,

		"hotelId":        hotel.Get("hotelId").String(),
		"hotelName":      stringOr(hotel.Get("name").String(), "Unknown Hotel"),
		"hotelChainCode": hotel.Get("chainCode").String(),
		"hotelCityCode":  cityCode,
		"hotelLatitude":  hotel.Get("latitude").Float(),
		"hotelLongitude": hotel.Get("longitude").Float(),
		"continent":      continentForCityCode(cityCode),

		"roomType":        room.Get("type").String(),
		"roomDescription": roomDescription,
		"roomCategory":    room.Get("typeEstimated.category").String(),

		"guests":            guestsPayload(body.Guests),
		"primaryGuestName":  body.Guests[0].Name.FirstName + " " + body.Guests[0].Name.LastName,
		"primaryGuestEmail": body.Guests[0].Contact.Email,
		"numberOfGuests":    len(body.Guests),

		"checkInDate":  order.Get("checkInDate").String(),
		"checkOutDate": order.Get("checkOutDate").String(),

		"currency":   currency,
		"totalPrice": totalPrice,
		"basePrice":  basePrice,

		"paymentMethod": body.PaymentMethod,
		"paymentStatus": string(types.PAYMENT_PAID),

		"cancellationDeadline": order.Get("policies.cancellation.deadline").String(),

		"createdAt": db.ServerTimestamp,
		"updatedAt": db.ServerTimestamp,
		"bookedAt":  db.ServerTimestamp,
	}

	bookingID, err := store.Add(ctx, db.Bookings, bookingData)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if err := store.Update(ctx, db.Bookings, bookingID, types.JSONB{"bookingId": bookingID}); err != nil {
		log.Printf("Error backfilling booking id [%s]: %s\n", bookingID, err.Error())
	}

	common.NotifyBookingSuccess(ctx, uid, bookingID, types.BOOKING_TYPE_HOTEL, stringOr(hotel.Get("name").String(), "Unknown Hotel"))

	saved, err := store.Get(ctx, db.Bookings, bookingID)
	data := types.JSONB{
		"bookingId":          bookingID,
		"confirmationNumber": providerConfirmationID,
		"bookingStatus":      bookingStatus,
		"isMockBooking":      mock,
	}
	if err == nil {
		for k, v := range saved.Data() {
			data[k] = v
		}
	}
	return types.JSONB{
		"success": true,
		"message": "Hotel booking created successfully",
		"data":    data,
	}, http.StatusCreated, nil
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func guestsPayload(guests []types.HotelGuest) []types.JSONB {
	out := make([]types.JSONB, 0, len(guests))
	for i, g := range guests {
		title := g.Name.Title
		if title == "" {
			title = "MR"
		}
		out = append(out, types.JSONB{
			"tid":       i + 1,
			"title":     title,
			"firstName": g.Name.FirstName,
			"lastName":  g.Name.LastName,
			"phone":     g.Contact.Phone,
			"email":     g.Contact.Email,
		})
	}
	return out
}

func mockHotelOrder(guests []types.HotelGuest) gjson.Result {
	confirmation := utils.MockConfirmationNumber("MOCK")
	order := types.JSONB{
		"type":                   "hotel-order",
		"id":                     confirmation,
		"bookingStatus":          string(types.BOOKING_CONFIRMED),
		"providerConfirmationId": confirmation,
		"associatedRecords": []types.JSONB{
			{"reference": confirmation, "originSystemCode": "MOCK"},
		},
		"hotel": types.JSONB{
			"hotelId":   "MOCKHOTEL001",
			"name":      "Mock Hotel for Testing",
			"chainCode": "MC",
			"cityCode":  "LON",
			"latitude":  51.50988,
			"longitude": -0.15509,
		},
		"room": types.JSONB{
			"type": "AP7",
			"typeEstimated": types.JSONB{
				"category": "SUPERIOR_ROOM",
				"beds":     1,
				"bedType":  "KING",
			},
			"description": types.JSONB{
				"text": "Superior King Room - Mock Booking for Testing",
			},
		},
		"guests":       guestsPayload(guests),
		"checkInDate":  "2025-12-20",
		"checkOutDate": "2025-12-22",
		"price": types.JSONB{
			"currency": "GBP",
			"total":    "907.20",
			"base":     "864.00",
		},
		"policies": types.JSONB{
			"cancellation": types.JSONB{
				"deadline": "2025-12-18T23:59:00.000Z",
				"type":     "FULL_STAY",
			},
			"paymentType": "deposit",
		},
	}
	raw, _ := json.Marshal(order)
	return gjson.ParseBytes(raw)
}
