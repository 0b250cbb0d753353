package main

import (
	"log"
	"net/http"

	"travexe/src/common"
	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"

	"github.com/gin-gonic/gin"
)

func wishlistHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/wishlist", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Wishlist, types.JSONB{"userId": uid})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get wishlist", "error": err.Error()})
				return
			}
			items := make([]*models.WishlistItem, 0, len(docs))
			for _, doc := range docs {
				var item models.WishlistItem
				if err := doc.DataTo(&item); err != nil {
					continue
				}
				item.WishlistID = doc.ID()
				items = append(items, &item)
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Wishlist retrieved successfully", "data": items, "count": len(items)})
		}).
		POST("/wishlist", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			var body types.AddWishlistRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "destinationId is required"})
				return
			}
			store := db.GetStore()
			destDoc, err := store.Get(ctx, db.Destinations, body.DestinationID)
			if err != nil {
				if err == db.ErrNotFound {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Destination not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add to wishlist", "error": err.Error()})
				return
			}
			existing, err := store.FindEq(ctx, db.Wishlist, types.JSONB{"userId": uid, "destinationId": body.DestinationID})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add to wishlist", "error": err.Error()})
				return
			}
			if len(existing) > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"success": false, "message": "This destination is already in your wishlist"})
				return
			}
			destData := destDoc.Data()
			name, _ := destData["name"].(string)
			imageURL, _ := destData["imageUrl"].(string)
			itemID, err := store.Add(ctx, db.Wishlist, types.JSONB{
				"userId":          uid,
				"destinationId":   body.DestinationID,
				"destinationName": name,
				"imageUrl":        imageURL,
				"createdAt":       db.ServerTimestamp,
			})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add to wishlist", "error": err.Error()})
				return
			}
			if err := store.Update(ctx, db.Wishlist, itemID, types.JSONB{"wishlistId": itemID}); err != nil {
				log.Printf("Error backfilling wishlist id [%s]: %s\n", itemID, err.Error())
			}
			common.NotifyWishlistAdded(ctx, uid, body.DestinationID, name)
			ctx.JSON(http.StatusCreated, gin.H{
				"success": true,
				"message": "Destination added to wishlist",
				"data": gin.H{
					"wishlistId":      itemID,
					"destinationId":   body.DestinationID,
					"destinationName": name,
				},
			})
		}).
		DELETE("/wishlist/:id", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "destinationId parameter is required"})
				return
			}
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Wishlist, types.JSONB{"userId": uid, "destinationId": params.ID})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove from wishlist", "error": err.Error()})
				return
			}
			if len(docs) == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Destination not found in your wishlist"})
				return
			}
			for _, doc := range docs {
				if err := store.Delete(ctx, db.Wishlist, doc.ID()); err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove from wishlist", "error": err.Error()})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Destination removed from wishlist"})
		})
	return g
}
