package main

import (
	"net/http"

	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"

	"github.com/gin-gonic/gin"
)

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/me", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Users, types.JSONB{"uid": uid})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get profile", "error": err.Error()})
				return
			}
			if len(docs) == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
				return
			}
			var user models.User
			if err := docs[0].DataTo(&user); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get profile", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile retrieved successfully", "data": user})
		}).
		PUT("/users/me", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			var body struct {
				Name     *string `json:"name,omitempty"`
				Phone    *string `json:"phone,omitempty"`
				PhotoURL *string `json:"photoURL,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid profile payload"})
				return
			}
			fields := types.JSONB{}
			if body.Name != nil {
				fields["name"] = *body.Name
			}
			if body.Phone != nil {
				fields["phone"] = *body.Phone
			}
			if body.PhotoURL != nil {
				fields["photoURL"] = *body.PhotoURL
			}
			if len(fields) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "At least one field must be provided for update"})
				return
			}
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Users, types.JSONB{"uid": uid})
			if err != nil || len(docs) == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
				return
			}
			fields["updatedAt"] = db.ServerTimestamp
			if err := store.Update(ctx, db.Users, docs[0].ID(), fields); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully"})
		})
	return g
}
