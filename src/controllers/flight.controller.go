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

func validatePassengers(passengers []types.FlightPassenger) error {
	if len(passengers) == 0 {
		return errors.New("at least one passenger/guest is required")
	}
	for i, p := range passengers {
		if p.FirstName == "" || p.LastName == "" {
			return fmt.Errorf("passenger %d: firstName and lastName are required", i+1)
		}
		if p.DateOfBirth == "" {
			return fmt.Errorf("passenger %d: dateOfBirth is required", i+1)
		}
		if p.Email == "" {
			return fmt.Errorf("passenger %d: email is required", i+1)
		}
		if !utils.ValidEmail(p.Email) {
			return fmt.Errorf("passenger %d: invalid email format", i+1)
		}
	}
	return nil
}

// CreateFlightBooking stores a CONFIRMED flight booking for a priced offer.
// Route, schedule and price summary fields are denormalized out of the offer
// so list screens never have to unpack the raw offer again.
func CreateFlightBooking(ctx *gin.Context) (types.JSONB, int, error) {
	uid := ctx.GetString("uid")
	var body types.CreateFlightBookingRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if err := validatePassengers(body.Passengers); err != nil {
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
	confirmationNumber := utils.MockConfirmationNumber("FLIGHT")
	if !mock {
		res, err := lib.GetAmadeusClient().CreateFlightOrder(ctx, body.FlightOffer, travelersPayload(body.Passengers))
		if err != nil {
			var aerr *lib.AmadeusError
			if errors.As(err, &aerr) {
				msg := strings.ToLower(aerr.Message)
				if strings.Contains(msg, "not found") || aerr.StatusCode == http.StatusNotFound {
					return nil, http.StatusNotFound, errors.New("flight offer not found or has expired, please search again")
				}
				if strings.Contains(msg, "not available") || aerr.StatusCode == http.StatusConflict {
					return nil, http.StatusConflict, errors.New("seats are no longer available, please select another offer")
				}
			}
			return nil, http.StatusBadGateway, err
		}
		if id := res.Get("data.id").String(); id != "" {
			confirmationNumber = id
		}
	} else {
		log.Println("MOCK MODE: creating flight booking without supplier call")
	}

	rawOffer, err := json.Marshal(body.FlightOffer)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	offer := gjson.ParseBytes(rawOffer)
	segments := offer.Get("itineraries.0.segments").Array()
	var firstSegment, lastSegment gjson.Result
	if len(segments) > 0 {
		firstSegment = segments[0]
		lastSegment = segments[len(segments)-1]
	}
	price := offer.Get("price")
	totalPrice, _ := strconv.ParseFloat(stringOr(price.Get("total").String(), price.Get("grandTotal").String()), 64)
	basePrice, _ := strconv.ParseFloat(price.Get("base").String(), 64)

	origin := firstSegment.Get("departure.iataCode").String()
	destination := lastSegment.Get("arrival.iataCode").String()

	bookingData := types.JSONB{
		"userId":      uid,
		"tripId":      body.TripID,
		"bookingType": string(types.BOOKING_TYPE_FLIGHT),

		"confirmationNumber":     confirmationNumber,
		"providerConfirmationId": confirmationNumber,
		"bookingStatus":          string(types.BOOKING_CONFIRMED),
		"isMockBooking":          mock,

		"flightOfferId": offer.Get("id").String(),
		"flightOffer":   body.FlightOffer,

		"origin":          origin,
		"destination":     destination,
		"originCity":      firstSegment.Get("departure.cityCode").String(),
		"destinationCity": lastSegment.Get("arrival.cityCode").String(),

		"departureDate": firstSegment.Get("departure.at").String(),
		"arrivalDate":   lastSegment.Get("arrival.at").String(),

		"airline":       firstSegment.Get("carrierCode").String(),
		"flightNumber":  firstSegment.Get("number").String(),
		"numberOfStops": max(len(segments)-1, 0),
		"cabin":         offer.Get("travelerPricings.0.fareDetailsBySegment.0.cabin").String(),

		"passengers":            passengersPayload(body.Passengers),
		"primaryPassengerName":  body.Passengers[0].FirstName + " " + body.Passengers[0].LastName,
		"primaryPassengerEmail": body.Passengers[0].Email,
		"numberOfPassengers":    len(body.Passengers),

		"selectedSeats":    body.SelectedSeats,
		"hasSeatsSelected": len(body.SelectedSeats) > 0,

		"currency":   stringOr(price.Get("currency").String(), "EUR"),
		"totalPrice": totalPrice,
		"basePrice":  basePrice,

		"paymentMethod": body.PaymentMethod,
		"paymentStatus": string(types.PAYMENT_PAID),

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

	common.NotifyBookingSuccess(ctx, uid, bookingID, types.BOOKING_TYPE_FLIGHT, stringOr(origin, "Unknown")+" to "+stringOr(destination, "Unknown"))

	saved, err := store.Get(ctx, db.Bookings, bookingID)
	data := types.JSONB{
		"bookingId":          bookingID,
		"confirmationNumber": confirmationNumber,
		"bookingStatus":      string(types.BOOKING_CONFIRMED),
		"isMockBooking":      mock,
	}
	if err == nil {
		for k, v := range saved.Data() {
			data[k] = v
		}
	}
	return types.JSONB{
		"success": true,
		"message": "Flight booking created successfully",
		"data":    data,
	}, http.StatusCreated, nil
}

func passengersPayload(passengers []types.FlightPassenger) []types.JSONB {
	out := make([]types.JSONB, 0, len(passengers))
	for _, p := range passengers {
		ptype := p.Type
		if ptype == "" {
			ptype = "ADULT"
		}
		out = append(out, types.JSONB{
			"type":           ptype,
			"firstName":      p.FirstName,
			"lastName":       p.LastName,
			"dateOfBirth":    p.DateOfBirth,
			"email":          p.Email,
			"phone":          p.Phone,
			"gender":         p.Gender,
			"nationality":    p.Nationality,
			"documentType":   p.DocumentType,
			"documentNumber": p.DocumentNumber,
		})
	}
	return out
}

func travelersPayload(passengers []types.FlightPassenger) []types.JSONB {
	out := make([]types.JSONB, 0, len(passengers))
	for i, p := range passengers {
		out = append(out, types.JSONB{
			"id":          strconv.Itoa(i + 1),
			"dateOfBirth": p.DateOfBirth,
			"name": types.JSONB{
				"firstName": p.FirstName,
				"lastName":  p.LastName,
			},
			"gender": stringOr(strings.ToUpper(p.Gender), "MALE"),
			"contact": types.JSONB{
				"emailAddress": p.Email,
				"phones": []types.JSONB{
					{"deviceType": "MOBILE", "number": p.Phone},
				},
			},
		})
	}
	return out
}
