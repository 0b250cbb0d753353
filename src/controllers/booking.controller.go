package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"travexe/src/common"
	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"
	"travexe/src/utils"

	"github.com/gin-gonic/gin"
)

var allowedSortFields = map[string]bool{
	"price":         true,
	"totalPrice":    true,
	"checkInDate":   true,
	"departureDate": true,
	"createdAt":     true,
}

// ListBookings returns the caller's bookings of one type with the filter,
// sort and pagination behavior of the mobile app's booking screens. Date,
// price and continent filters run in memory; the store only sees equality
// filters, so no composite indexes are needed.
func ListBookings(ctx *gin.Context, bookingType types.BookingType) (types.JSONB, int, error) {
	uid := ctx.GetString("uid")
	var query types.BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if query.Page < 1 {
		return nil, http.StatusBadRequest, errors.New("page must be greater than 0")
	}
	if query.Limit < 1 || query.Limit > 50 {
		return nil, http.StatusBadRequest, errors.New("limit must be between 1 and 50")
	}
	if !allowedSortFields[query.SortBy] {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid sortBy field %q", query.SortBy)
	}
	if query.SortOrder != "asc" && query.SortOrder != "desc" {
		return nil, http.StatusBadRequest, errors.New("sortOrder must be 'asc' or 'desc'")
	}

	filters := types.JSONB{
		"userId":      uid,
		"bookingType": string(bookingType),
	}
	if query.TripID != "" {
		filters["tripId"] = query.TripID
	}
	if query.Status != "" {
		filters["bookingStatus"] = strings.ToUpper(query.Status)
	}
	store := db.GetStore()
	docs, err := store.FindEq(ctx, db.Bookings, filters)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	bookings := make([]*models.Booking, 0, len(docs))
	for _, doc := range docs {
		var booking models.Booking
		if err := doc.DataTo(&booking); err != nil {
			continue
		}
		booking.BookingID = doc.ID()
		bookings = append(bookings, &booking)
	}
	bookings = filterBookings(bookings, &query, bookingType)
	sortBookings(bookings, query.SortBy, query.SortOrder, bookingType)

	if len(bookings) == 0 {
		return types.JSONB{
			"success":    true,
			"message":    fmt.Sprintf("No %s bookings found", bookingType),
			"data":       []*models.Booking{},
			"count":      0,
			"pagination": types.Pagination{Page: query.Page, Limit: query.Limit},
			"emptyState": emptyStateFor(bookingType),
		}, http.StatusOK, nil
	}

	totalItems := len(bookings)
	totalPages := int(math.Ceil(float64(totalItems) / float64(query.Limit)))
	start := (query.Page - 1) * query.Limit
	if start > totalItems {
		start = totalItems
	}
	end := min(start+query.Limit, totalItems)
	pageItems := bookings[start:end]

	totalSpent := 0.0
	for _, b := range bookings {
		totalSpent += b.TotalPrice
	}
	averagePrice := totalSpent / float64(totalItems)
	currency := "EUR"
	if len(pageItems) > 0 {
		currency = pageItems[0].Currency
	}

	return types.JSONB{
		"success": true,
		"message": fmt.Sprintf("%s bookings retrieved successfully", capitalize(string(bookingType))),
		"data":    pageItems,
		"count":   len(pageItems),
		"pagination": types.Pagination{
			Page:        query.Page,
			Limit:       query.Limit,
			TotalPages:  totalPages,
			TotalItems:  totalItems,
			HasNextPage: query.Page < totalPages,
			HasPrevPage: query.Page > 1,
		},
		"summary": types.JSONB{
			"totalBookings": totalItems,
			"totalSpent":    math.Round(totalSpent),
			"averagePrice":  math.Round(averagePrice),
			"currency":      currency,
		},
		"appliedFilters": types.JSONB{
			"tripId":    query.TripID,
			"status":    query.Status,
			"continent": query.Continent,
			"sortBy":    query.SortBy,
			"sortOrder": query.SortOrder,
		},
	}, http.StatusOK, nil
}

func filterBookings(bookings []*models.Booking, query *types.BookingListQuery, bookingType types.BookingType) []*models.Booking {
	out := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		dateStr := b.CheckInDate
		if bookingType == types.BOOKING_TYPE_FLIGHT {
			dateStr = b.DepartureDate
		}
		if query.StartDate != "" || query.EndDate != "" {
			date, err := utils.ParseDate(dateStr)
			if err != nil {
				continue
			}
			if query.StartDate != "" {
				if start, err := utils.ParseDate(query.StartDate); err == nil && date.Before(start) {
					continue
				}
			}
			if query.EndDate != "" {
				if end, err := utils.ParseDate(query.EndDate); err == nil && date.After(end) {
					continue
				}
			}
		}
		if query.MinPrice > 0 && b.TotalPrice < query.MinPrice {
			continue
		}
		if query.MaxPrice > 0 && b.TotalPrice > query.MaxPrice {
			continue
		}
		if query.Continent != "" && !strings.EqualFold(b.Continent, query.Continent) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func sortBookings(bookings []*models.Booking, sortBy, sortOrder string, bookingType types.BookingType) {
	sort.SliceStable(bookings, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "price", "totalPrice":
			less = bookings[i].TotalPrice < bookings[j].TotalPrice
		case "checkInDate", "departureDate":
			a := bookings[i].CheckInDate
			b := bookings[j].CheckInDate
			if bookingType == types.BOOKING_TYPE_FLIGHT {
				a = bookings[i].DepartureDate
				b = bookings[j].DepartureDate
			}
			less = a < b
		default:
			less = bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
		}
		if sortOrder == "desc" {
			return !less
		}
		return less
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func emptyStateFor(bookingType types.BookingType) types.JSONB {
	if bookingType == types.BOOKING_TYPE_FLIGHT {
		return types.JSONB{
			"title":       "No Flight Bookings",
			"description": "You haven't booked any flights yet. Search for flights and plan your next getaway!",
			"actionText":  "Search Flights",
			"actionUrl":   "/flights/search",
		}
	}
	return types.JSONB{
		"title":       "No Hotel Bookings",
		"description": "You haven't booked any hotels yet. Start exploring destinations and find your perfect stay!",
		"actionText":  "Explore Hotels",
		"actionUrl":   "/hotels/search",
	}
}

// GetBookingDetail loads one booking with its trip summary attached.
func GetBookingDetail(ctx *gin.Context, bookingType types.BookingType) (types.JSONB, int, error) {
	uid := ctx.GetString("uid")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusBadRequest, err
	}
	store := db.GetStore()
	doc, err := store.Get(ctx, db.Bookings, params.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, http.StatusNotFound, errors.New("booking not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	data := doc.Data()
	if owner, _ := data["userId"].(string); owner != uid {
		return nil, http.StatusForbidden, errors.New("you don't have permission to view this booking")
	}

	var tripInfo types.JSONB
	if tripID, _ := data["tripId"].(string); tripID != "" {
		if tripDoc, err := store.Get(ctx, db.Trips, tripID); err == nil {
			tripData := tripDoc.Data()
			tripInfo = types.JSONB{
				"tripId":    tripDoc.ID(),
				"tripName":  tripData["tripName"],
				"startDate": tripData["startDate"],
				"endDate":   tripData["endDate"],
			}
		}
	}
	data["id"] = doc.ID()
	data["trip"] = tripInfo
	return types.JSONB{
		"success": true,
		"message": "Booking details retrieved successfully",
		"data":    data,
	}, http.StatusOK, nil
}

// CancelBooking moves a confirmed booking to CANCELLED. Hotel bookings are
// held to their cancellation deadline, flight bookings to their departure
// time. The status change is authoritative locally; no supplier call is made.
func CancelBooking(ctx *gin.Context, bookingType types.BookingType) (types.JSONB, int, error) {
	uid := ctx.GetString("uid")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusBadRequest, err
	}
	store := db.GetStore()
	doc, err := store.Get(ctx, db.Bookings, params.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, http.StatusNotFound, errors.New("booking not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	var booking models.Booking
	if err := doc.DataTo(&booking); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	booking.BookingID = doc.ID()
	if booking.UserID != uid {
		return nil, http.StatusForbidden, errors.New("you don't have permission to cancel this booking")
	}
	if booking.Status == types.BOOKING_CANCELLED {
		return nil, http.StatusBadRequest, errors.New("booking is already cancelled")
	}

	now := time.Now().UTC()
	if bookingType == types.BOOKING_TYPE_HOTEL && booking.CancellationDeadline != "" {
		deadline, err := utils.ParseDate(booking.CancellationDeadline)
		if err == nil && now.After(deadline) {
			return nil, http.StatusBadRequest, fmt.Errorf("cancellation deadline has passed: %s", booking.CancellationDeadline)
		}
	}
	if bookingType == types.BOOKING_TYPE_FLIGHT && booking.DepartureDate != "" {
		departure, err := utils.ParseDate(booking.DepartureDate)
		if err == nil && departure.Before(now) {
			return nil, http.StatusBadRequest, errors.New("cannot cancel booking, departure date has passed")
		}
	}

	if err := store.Update(ctx, db.Bookings, booking.BookingID, types.JSONB{
		"bookingStatus": string(types.BOOKING_CANCELLED),
		"cancelledAt":   db.ServerTimestamp,
		"updatedAt":     db.ServerTimestamp,
		"paymentStatus": string(types.PAYMENT_REFUNDED),
	}); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	title := booking.HotelName
	if bookingType == types.BOOKING_TYPE_FLIGHT {
		title = booking.Origin + " to " + booking.Destination
	}
	common.NotifyBookingCancelled(ctx, uid, booking.BookingID, bookingType, title)

	return types.JSONB{
		"success": true,
		"message": "Booking cancelled successfully",
		"data": types.JSONB{
			"bookingId":     booking.BookingID,
			"bookingStatus": string(types.BOOKING_CANCELLED),
			"cancelledAt":   now.Format(time.RFC3339),
		},
	}, http.StatusOK, nil
}
