package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"travexe/src/controllers"
	"travexe/src/lib"
	"travexe/src/types"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

func supplierError(ctx *gin.Context, err error, message string) {
	var aerr *lib.AmadeusError
	if errors.As(err, &aerr) {
		status := http.StatusBadGateway
		if aerr.StatusCode == http.StatusNotFound || aerr.StatusCode == http.StatusBadRequest {
			status = aerr.StatusCode
		}
		ctx.JSON(status, gin.H{"success": false, "message": message, "error": aerr.Message})
		return
	}
	ctx.JSON(http.StatusBadGateway, gin.H{"success": false, "message": message, "error": err.Error()})
}

func hotelHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/hotels/locations", func(ctx *gin.Context) {
			keyword := ctx.Query("keyword")
			if len(keyword) < 2 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "keyword must be at least 2 characters"})
				return
			}
			cacheKey := fmt.Sprintf("hotels:locations:%s", keyword)
			var cached types.JSONB
			if lib.CacheGetJSON(ctx, cacheKey, &cached) {
				ctx.JSON(http.StatusOK, cached)
				return
			}
			res, err := lib.GetAmadeusClient().SearchLocations(ctx, keyword, "CITY")
			if err != nil {
				supplierError(ctx, err, "Failed to search locations")
				return
			}
			response := types.JSONB{
				"success": true,
				"message": "Locations retrieved successfully",
				"data":    res.Get("data").Value(),
			}
			lib.CacheSetJSON(ctx, cacheKey, response, 24*time.Hour)
			ctx.JSON(http.StatusOK, response)
		}).
		GET("/hotels/search", func(ctx *gin.Context) {
			var query struct {
				CityCode  string `form:"cityCode"`
				Latitude  string `form:"latitude"`
				Longitude string `form:"longitude"`
				HotelIds  string `form:"hotelIds"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid query parameters"})
				return
			}
			var res gjson.Result
			var err error
			client := lib.GetAmadeusClient()
			switch {
			case query.HotelIds != "":
				res, err = client.SearchHotelsByIds(ctx, query.HotelIds)
			case query.CityCode != "":
				res, err = client.SearchHotelsByCity(ctx, query.CityCode)
			case query.Latitude != "" && query.Longitude != "":
				res, err = client.SearchHotelsByGeocode(ctx, query.Latitude, query.Longitude)
			default:
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cityCode, latitude/longitude, or hotelIds is required"})
				return
			}
			if err != nil {
				supplierError(ctx, err, "Failed to search hotels")
				return
			}
			hotels := res.Get("data").Array()
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Hotels retrieved successfully",
				"data":    res.Get("data").Value(),
				"count":   len(hotels),
			})
		}).
		GET("/hotels/offers", func(ctx *gin.Context) {
			hotelIds := ctx.Query("hotelIds")
			if hotelIds == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "hotelIds is required"})
				return
			}
			params := url.Values{}
			for _, key := range []string{"checkInDate", "checkOutDate", "adults", "roomQuantity", "currency", "priceRange", "boardType"} {
				if v := ctx.Query(key); v != "" {
					params.Set(key, v)
				}
			}
			res, err := lib.GetAmadeusClient().SearchHotelOffers(ctx, hotelIds, params)
			if err != nil {
				supplierError(ctx, err, "Failed to retrieve hotel offers")
				return
			}
			offers := res.Get("data").Array()
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Hotel offers retrieved successfully",
				"data":    res.Get("data").Value(),
				"count":   len(offers),
			})
		}).
		GET("/hotels/offers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "offerId parameter is required"})
				return
			}
			res, err := lib.GetAmadeusClient().ConfirmOfferPricing(ctx, params.ID)
			if err != nil {
				var aerr *lib.AmadeusError
				if errors.As(err, &aerr) && aerr.StatusCode == http.StatusNotFound {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Offer not found or has expired. Please search for offers again."})
					return
				}
				supplierError(ctx, err, "Failed to confirm offer pricing")
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Offer pricing confirmed successfully",
				"data":    res.Get("data").Value(),
			})
		}).
		POST("/hotels/bookings", func(ctx *gin.Context) {
			result, status, err := controllers.CreateHotelBooking(ctx)
			if err != nil {
				log.Printf("Error on CreateHotelBooking: %s\n", err.Error())
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to create hotel booking", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		GET("/hotels/bookings", func(ctx *gin.Context) {
			result, status, err := controllers.ListBookings(ctx, types.BOOKING_TYPE_HOTEL)
			if err != nil {
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to retrieve hotel bookings", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		GET("/hotels/bookings/:id", func(ctx *gin.Context) {
			result, status, err := controllers.GetBookingDetail(ctx, types.BOOKING_TYPE_HOTEL)
			if err != nil {
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to retrieve booking details", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		DELETE("/hotels/bookings/:id", func(ctx *gin.Context) {
			result, status, err := controllers.CancelBooking(ctx, types.BOOKING_TYPE_HOTEL)
			if err != nil {
				ctx.JSON(status, gin.H{"success": false, "message": "Failed to cancel booking", "error": err.Error()})
				return
			}
			ctx.JSON(status, result)
		})
	return g
}
