package models

import "time"

type WishlistItem struct {
	WishlistID      string    `firestore:"wishlistId" json:"wishlistId"`
	UserID          string    `firestore:"userId" json:"userId"`
	DestinationID   string    `firestore:"destinationId" json:"destinationId"`
	DestinationName string    `firestore:"destinationName,omitempty" json:"destinationName,omitempty"`
	ImageURL        string    `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt       time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}
