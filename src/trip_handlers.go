package main

import (
	"log"
	"net/http"
	"sort"

	"travexe/src/common"
	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"
	"travexe/src/utils"

	"github.com/gin-gonic/gin"
)

func tripHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trips", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Trips, types.JSONB{"userId": uid})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get trips", "error": err.Error()})
				return
			}
			trips := make([]*models.Trip, 0, len(docs))
			for _, doc := range docs {
				var trip models.Trip
				if err := doc.DataTo(&trip); err != nil {
					continue
				}
				trip.TripID = doc.ID()
				trips = append(trips, &trip)
			}
			sort.Slice(trips, func(i, j int) bool {
				return trips[i].CreatedAt.After(trips[j].CreatedAt)
			})
			if len(trips) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "No trips found", "data": trips, "count": 0})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Trips retrieved successfully", "data": trips, "count": len(trips)})
		}).
		POST("/trips", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			var body types.CreateTripRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "tripName, startDate, and endDate are required", "error": err.Error()})
				return
			}
			store := db.GetStore()
			tripID, err := store.Add(ctx, db.Trips, types.JSONB{
				"userId":     uid,
				"tripName":   body.TripName,
				"startDate":  body.StartDate,
				"endDate":    body.EndDate,
				"notes":      body.Notes,
				"coverImage": body.CoverImage,
				"createdAt":  db.ServerTimestamp,
				"updatedAt":  db.ServerTimestamp,
			})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create trip", "error": err.Error()})
				return
			}
			if err := store.Update(ctx, db.Trips, tripID, types.JSONB{"tripId": tripID}); err != nil {
				log.Printf("Error backfilling trip id [%s]: %s\n", tripID, err.Error())
			}
			common.NotifyTripCreated(ctx, uid, tripID, body.TripName)
			ctx.JSON(http.StatusCreated, gin.H{
				"success": true,
				"message": "Trip created successfully",
				"data": gin.H{
					"tripId":    tripID,
					"tripName":  body.TripName,
					"startDate": body.StartDate,
					"endDate":   body.EndDate,
				},
			})
		}).
		GET("/trips/:id", func(ctx *gin.Context) {
			trip, ok := loadOwnedTrip(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Trip details retrieved successfully", "data": trip})
		}).
		GET("/trips/:id/bookings", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			trip, ok := loadOwnedTrip(ctx)
			if !ok {
				return
			}
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Bookings, types.JSONB{"userId": uid, "tripId": trip.TripID})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get trip bookings", "error": err.Error()})
				return
			}
			bookings := make([]types.JSONB, 0, len(docs))
			for _, doc := range docs {
				data := doc.Data()
				data["id"] = doc.ID()
				bookings = append(bookings, data)
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Trip bookings retrieved successfully", "data": bookings, "count": len(bookings)})
		}).
		PUT("/trips/:id", func(ctx *gin.Context) {
			trip, ok := loadOwnedTrip(ctx)
			if !ok {
				return
			}
			var body types.UpdateTripRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid trip payload", "error": err.Error()})
				return
			}
			fields := types.JSONB{}
			startDate := trip.StartDate
			endDate := trip.EndDate
			if body.TripName != nil {
				fields["tripName"] = *body.TripName
			}
			if body.StartDate != nil {
				fields["startDate"] = *body.StartDate
				startDate = *body.StartDate
			}
			if body.EndDate != nil {
				fields["endDate"] = *body.EndDate
				endDate = *body.EndDate
			}
			if body.Notes != nil {
				fields["notes"] = *body.Notes
			}
			if body.CoverImage != nil {
				fields["coverImage"] = *body.CoverImage
			}
			if len(fields) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "At least one field must be provided for update"})
				return
			}
			start, err1 := utils.ParseDate(startDate)
			end, err2 := utils.ParseDate(endDate)
			if err1 == nil && err2 == nil && end.Before(start) {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "endDate must be after startDate"})
				return
			}
			fields["updatedAt"] = db.ServerTimestamp
			store := db.GetStore()
			if err := store.Update(ctx, db.Trips, trip.TripID, fields); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update trip", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Trip updated successfully", "data": gin.H{"tripId": trip.TripID}})
		}).
		DELETE("/trips/:id", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			trip, ok := loadOwnedTrip(ctx)
			if !ok {
				return
			}
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Bookings, types.JSONB{"userId": uid, "tripId": trip.TripID})
			if err == nil {
				for _, doc := range docs {
					if err := store.Delete(ctx, db.Bookings, doc.ID()); err != nil {
						log.Printf("Error deleting booking [%s] for trip [%s]: %s\n", doc.ID(), trip.TripID, err.Error())
					}
				}
			}
			if err := store.Delete(ctx, db.Trips, trip.TripID); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete trip", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Trip and all related data deleted successfully"})
		})
	return g
}

// loadOwnedTrip resolves the :id param to a trip owned by the caller,
// writing the error response itself when it cannot.
func loadOwnedTrip(ctx *gin.Context) (*models.Trip, bool) {
	uid := ctx.GetString("uid")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid trip id"})
		return nil, false
	}
	store := db.GetStore()
	doc, err := store.Get(ctx, db.Trips, params.ID)
	if err != nil {
		if err == db.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found"})
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get trip details", "error": err.Error()})
		return nil, false
	}
	var trip models.Trip
	if err := doc.DataTo(&trip); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get trip details", "error": err.Error()})
		return nil, false
	}
	trip.TripID = doc.ID()
	if trip.UserID != uid {
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You don't have permission to access this trip"})
		return nil, false
	}
	return &trip, true
}
