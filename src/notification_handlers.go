package main

import (
	"net/http"
	"sort"
	"time"

	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			unreadOnly := ctx.Query("unreadOnly") == "true" || ctx.Query("unread") == "true"
			store := db.GetStore()
			filters := types.JSONB{"userId": uid}
			if unreadOnly {
				filters["isRead"] = false
			}
			docs, err := store.FindEq(ctx, db.Notifications, filters)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get notifications", "error": err.Error()})
				return
			}
			notifications := make([]*models.Notification, 0, len(docs))
			unreadCount := 0
			for _, doc := range docs {
				var n models.Notification
				if err := doc.DataTo(&n); err != nil {
					continue
				}
				n.NotificationID = doc.ID()
				if !n.IsRead {
					unreadCount++
				}
				notifications = append(notifications, &n)
			}
			sort.Slice(notifications, func(i, j int) bool {
				return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
			})
			ctx.JSON(http.StatusOK, gin.H{
				"success":     true,
				"message":     "Notifications retrieved successfully",
				"data":        notifications,
				"count":       len(notifications),
				"unreadCount": unreadCount,
			})
		}).
		GET("/notifications/unread-count", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Notifications, types.JSONB{"userId": uid, "isRead": false})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get unread count", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "unreadCount": len(docs)})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			notification, ok := loadOwnedNotification(ctx, uid)
			if !ok {
				return
			}
			if notification.IsRead {
				ctx.JSON(http.StatusOK, gin.H{
					"success": true,
					"message": "Notification already marked as read",
					"data":    gin.H{"notificationId": notification.NotificationID, "isRead": true},
				})
				return
			}
			store := db.GetStore()
			if err := store.Update(ctx, db.Notifications, notification.NotificationID, types.JSONB{
				"isRead": true,
				"readAt": db.ServerTimestamp,
			}); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notification as read", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Notification marked as read",
				"data": gin.H{
					"notificationId": notification.NotificationID,
					"isRead":         true,
					"readAt":         time.Now().UTC().Format(time.RFC3339),
				},
			})
		}).
		PUT("/notifications/read-all", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			store := db.GetStore()
			docs, err := store.FindEq(ctx, db.Notifications, types.JSONB{"userId": uid, "isRead": false})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notifications as read", "error": err.Error()})
				return
			}
			if len(docs) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "No unread notifications to mark", "count": 0})
				return
			}
			updates := make([]db.Update, 0, len(docs))
			for _, doc := range docs {
				updates = append(updates, db.Update{
					Collection: db.Notifications,
					DocID:      doc.ID(),
					Fields: types.JSONB{
						"isRead": true,
						"readAt": db.ServerTimestamp,
					},
				})
			}
			if err := store.BatchUpdate(ctx, updates); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notifications as read", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read", "count": len(updates)})
		}).
		DELETE("/notifications/:id", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			notification, ok := loadOwnedNotification(ctx, uid)
			if !ok {
				return
			}
			store := db.GetStore()
			if err := store.Delete(ctx, db.Notifications, notification.NotificationID); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete notification", "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted successfully"})
		})
	return g
}

func loadOwnedNotification(ctx *gin.Context, uid string) (*models.Notification, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
		return nil, false
	}
	store := db.GetStore()
	doc, err := store.Get(ctx, db.Notifications, params.ID)
	if err != nil {
		if err == db.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get notification", "error": err.Error()})
		return nil, false
	}
	var n models.Notification
	if err := doc.DataTo(&n); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get notification", "error": err.Error()})
		return nil, false
	}
	n.NotificationID = doc.ID()
	if n.UserID != uid {
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You don't have permission to access this notification"})
		return nil, false
	}
	return &n, true
}
