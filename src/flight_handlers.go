package main

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"travexe/src/controllers"
	"travexe/src/lib"
	"travexe/src/types"

	"github.com/gin-gonic/gin"
)

func flightHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/flights/locations", func(ctx *gin.Context) {
			keyword := ctx.Query("keyword")
			if len(keyword) < 2 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "keyword must be at least 2 characters"})
				return
			}
			res, err := lib.GetAmadeusClient().SearchLocations(ctx, keyword, "AIRPORT,CITY")
			if err != nil {
				supplierError(ctx, err, "Failed to search locations")
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Locations retrieved successfully",
				"data":    res.Get("data").Value(),
			})
		}).
		POST("/flights/search", func(ctx *gin.Context) {
			var body struct {
				Origin        string `json:"origin" binding:"required"`
				Destination   string `json:"destination" binding:"required"`
				DepartureDate string `json:"departureDate" binding:"required"`
				ReturnDate    string `json:"returnDate,omitempty"`
				Adults        int    `json:"adults,omitempty"`
				Children      int    `json:"children,omitempty"`
				TravelClass   string `json:"travelClass,omitempty"`
				NonStop       bool   `json:"nonStop,omitempty"`
				Max           int    `json:"max,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "origin, destination, and departureDate are required", "error": err.Error()})
				return
			}
			if body.Adults < 1 {
				body.Adults = 1
			}
			if body.Max < 1 {
				body.Max = 20
			}
			params := url.Values{}
			params.Set("originLocationCode", body.Origin)
			params.Set("destinationLocationCode", body.Destination)
			params.Set("departureDate", body.DepartureDate)
			params.Set("adults", strconv.Itoa(body.Adults))
			params.Set("max", strconv.Itoa(body.Max))
			if body.ReturnDate != "" {
				params.Set("returnDate", body.ReturnDate)
			}
			if body.Children > 0 {
				params.Set("children", strconv.Itoa(body.Children))
			}
			if body.TravelClass != "" {
				params.Set("travelClass", body.TravelClass)
			}
			if body.NonStop {
				params.Set("nonStop", "true")
			}
			res, err := lib.GetAmadeusClient().SearchFlightOffers(ctx, params)
			if err != nil {
				supplierError(ctx, err, "Failed to search flights")
				return
			}
			offers := res.Get("data").Array()
			ctx.JSON(http.StatusOK, gin.H{
				"success":      true,
				"message":      "Flight offers retrieved successfully",
				"data":         res.Get("data").Value(),
				"count":        len(offers),
				"dictionaries": res.Get("dictionaries").Value(),
			})
		}).
		POST("/flights/pricing", func(ctx *gin.Context) {
			var body struct {
				FlightOffer types.JSONB `json:"flightOffer" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "flightOffer is required"})
				return
			}
			res, err := lib.GetAmadeusClient().ConfirmFlightPricing(ctx, body.FlightOffer)
			if err != nil {
				supplierError(ctx, err, "Failed to confirm flight pricing")
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Flight pricing confirmed successfully",
				"data":    res.Get("data").Value(),
			})
		}).
		POST("/flights/seatmaps", func(ctx *gin.Context) {
			var body struct {
				FlightOffer types.JSONB `json:"flightOffer" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "flightOffer is required"})
				return
			}
			res, err := lib.GetAmadeusClient().GetSeatmaps(ctx, body.FlightOffer)
			if err != nil {
				supplierError(ctx, err, "Failed to retrieve seatmaps")
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Seatmaps retrieved successfully",
				"data":    res.Get("data").Value(),
			})
		}).
		POST("/flights/bookings", func(ctx *gin.Context) {
			result, status, err := controllers.CreateFlightBooking(ctx)
			if err != nil {
				log.Printf("Error on CreateFlightBooking: %s\n", err.Error())
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to create flight booking", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		GET("/flights/bookings", func(ctx *gin.Context) {
			result, status, err := controllers.ListBookings(ctx, types.BOOKING_TYPE_FLIGHT)
			if err != nil {
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to retrieve flight bookings", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		GET("/flights/bookings/:id", func(ctx *gin.Context) {
			result, status, err := controllers.GetBookingDetail(ctx, types.BOOKING_TYPE_FLIGHT)
			if err != nil {
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to retrieve booking details", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		DELETE("/flights/bookings/:id", func(ctx *gin.Context) {
			result, status, err := controllers.CancelBooking(ctx, types.BOOKING_TYPE_FLIGHT)
			if err != nil {
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to cancel booking", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		})
	return g
}
