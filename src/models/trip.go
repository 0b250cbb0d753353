package models

import "time"

type Trip struct {
	TripID     string    `firestore:"tripId" json:"tripId"`
	UserID     string    `firestore:"userId" json:"userId"`
	TripName   string    `firestore:"tripName" json:"tripName"`
	StartDate  string    `firestore:"startDate" json:"startDate"`
	EndDate    string    `firestore:"endDate" json:"endDate"`
	Notes      string    `firestore:"notes,omitempty" json:"notes,omitempty"`
	CoverImage string    `firestore:"coverImage,omitempty" json:"coverImage,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt  time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
