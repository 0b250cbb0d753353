package common

import (
	"context"
	"fmt"
	"log"
	"os"

	"travexe/src/db"
	"travexe/src/lib"
	"travexe/src/lib/mailer"
	"travexe/src/models"
	"travexe/src/types"

	"firebase.google.com/go/v4/messaging"
	"github.com/tidwall/gjson"
)

// CreateNotification persists an in-app notification and backfills its
// document id. Push and email delivery are best effort; a failure there
// never fails the caller.
func CreateNotification(ctx context.Context, n *models.Notification) error {
	store := db.GetStore()
	id, err := store.Add(ctx, db.Notifications, types.JSONB{
		"userId":      n.UserID,
		"type":        n.Type,
		"title":       n.Title,
		"body":        n.Body,
		"relatedType": n.RelatedType,
		"relatedId":   n.RelatedID,
		"actionUrl":   n.ActionURL,
		"isRead":      false,
		"createdAt":   db.ServerTimestamp,
	})
	if err != nil {
		return err
	}
	n.NotificationID = id
	if err := store.Update(ctx, db.Notifications, id, types.JSONB{"notificationId": id}); err != nil {
		log.Printf("Error backfilling notification id [%s]: %s\n", id, err.Error())
	}
	go sendPushNotification(n)
	if email := userEmail(ctx, n.UserID); email != "" {
		deliverEmail(email, n.Title, n.Body)
	}
	return nil
}

func userEmail(ctx context.Context, userID string) string {
	docs, err := db.GetStore().FindEq(ctx, db.Users, types.JSONB{"uid": userID})
	if err != nil || len(docs) == 0 {
		return ""
	}
	email, _ := docs[0].Data()["email"].(string)
	return email
}

// notify wraps CreateNotification for call sites where a notification is a
// side effect of some other operation. Failures are logged and swallowed.
func notify(ctx context.Context, n *models.Notification) {
	if err := CreateNotification(ctx, n); err != nil {
		log.Printf("Error creating notification for user [%s]: %s\n", n.UserID, err.Error())
	}
}

func sendPushNotification(n *models.Notification) {
	if os.Getenv("FCM_ENABLED") != "true" {
		return
	}
	ctx := context.Background()
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	// path queries come back as a JSON array
	val := rd.JSONGet(ctx, fmt.Sprintf("%s:fcm", n.UserID), "$.token").Val()
	token := gjson.Parse(val).Get("0").String()
	if token == "" {
		return
	}
	fcm, err := lib.GetFirebaseMessaging()
	if err != nil {
		return
	}
	res, err := fcm.Send(ctx, &messaging.Message{
		Token: token,
		Data: map[string]string{
			"title": n.Title,
			"body":  n.Body,
		},
	})
	if err != nil {
		log.Printf("[FCM] error sending notification message: %s", err.Error())
		return
	}
	log.Printf("[FCM] notification sent to user %s: %s", n.UserID, res)
}

// deliverEmail Replace email delivery with custom implementation
var deliverEmail = sendNotificationEmail

func sendNotificationEmail(recipient, subject, body string) {
	if recipient == "" {
		return
	}
	input := &lib.SendMailInput{
		From:     os.Getenv("EMAIL_FROM"),
		FromName: "Travexe",
		To:       []string{recipient},
		Subject:  subject,
		Body:     body,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("Error queueing notification email: %s\n", err.Error())
	}
}

func NotifyWelcome(ctx context.Context, userID, name string) {
	notify(ctx, &models.Notification{
		UserID: userID,
		Type:   "welcome",
		Title:  "Welcome to Travexe",
		Body:   fmt.Sprintf("Hi %s, start planning your first trip!", name),
	})
}

func NotifyTripCreated(ctx context.Context, userID, tripID, tripName string) {
	notify(ctx, &models.Notification{
		UserID:      userID,
		Type:        "trip",
		Title:       "Trip created",
		Body:        fmt.Sprintf("Your trip %q is ready. Add destinations and bookings to it.", tripName),
		RelatedType: "trip",
		RelatedID:   tripID,
		ActionURL:   fmt.Sprintf("/trips/%s", tripID),
	})
}

func NotifyBookingSuccess(ctx context.Context, userID, bookingID string, bookingType types.BookingType, title string) {
	notify(ctx, &models.Notification{
		UserID:      userID,
		Type:        "booking",
		Title:       "Booking confirmed",
		Body:        fmt.Sprintf("Your %s booking %s is confirmed.", bookingType, title),
		RelatedType: string(bookingType),
		RelatedID:   bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%s", bookingID),
	})
}

func NotifyBookingCancelled(ctx context.Context, userID, bookingID string, bookingType types.BookingType, title string) {
	notify(ctx, &models.Notification{
		UserID:      userID,
		Type:        "booking",
		Title:       "Booking cancelled",
		Body:        fmt.Sprintf("Your %s booking %s has been cancelled.", bookingType, title),
		RelatedType: string(bookingType),
		RelatedID:   bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%s", bookingID),
	})
}

func NotifyBookingCompleted(ctx context.Context, userID, bookingID string, bookingType types.BookingType, title string) {
	notify(ctx, &models.Notification{
		UserID:      userID,
		Type:        "booking",
		Title:       "Booking completed",
		Body:        fmt.Sprintf("Your %s booking %s is complete. We hope you had a great time!", bookingType, title),
		RelatedType: string(bookingType),
		RelatedID:   bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%s", bookingID),
	})
}

// NotifyUpcomingReminder is sent three days ahead of a stay or departure.
// It returns the error so the caller can decide whether to flag the booking
// as reminded.
func NotifyUpcomingReminder(ctx context.Context, userID, bookingID string, bookingType types.BookingType, title, date string) error {
	verb := "Your stay at"
	if bookingType == types.BOOKING_TYPE_FLIGHT {
		verb = "Your flight"
	}
	return CreateNotification(ctx, &models.Notification{
		UserID:      userID,
		Type:        "reminder",
		Title:       "Upcoming trip reminder",
		Body:        fmt.Sprintf("%s %s is coming up on %s.", verb, title, date),
		RelatedType: string(bookingType),
		RelatedID:   bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%s", bookingID),
	})
}

func NotifyWishlistAdded(ctx context.Context, userID, destinationID, destinationName string) {
	notify(ctx, &models.Notification{
		UserID:      userID,
		Type:        "wishlist",
		Title:       "Added to wishlist",
		Body:        fmt.Sprintf("%s was added to your wishlist.", destinationName),
		RelatedType: "destination",
		RelatedID:   destinationID,
		ActionURL:   fmt.Sprintf("/destinations/%s", destinationID),
	})
}
