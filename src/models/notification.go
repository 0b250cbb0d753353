package models

import "time"

type Notification struct {
	NotificationID string     `firestore:"notificationId" json:"notificationId"`
	UserID         string     `firestore:"userId" json:"userId"`
	Type           string     `firestore:"type" json:"type"`
	Title          string     `firestore:"title" json:"title"`
	Body           string     `firestore:"body" json:"body"`
	RelatedType    string     `firestore:"relatedType,omitempty" json:"relatedType,omitempty"`
	RelatedID      string     `firestore:"relatedId,omitempty" json:"relatedId,omitempty"`
	ActionURL      string     `firestore:"actionUrl,omitempty" json:"actionUrl,omitempty"`
	IsRead         bool       `firestore:"isRead" json:"isRead"`
	ReadAt         *time.Time `firestore:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt      time.Time  `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}
