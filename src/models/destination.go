package models

import "time"

type Destination struct {
	DestinationID string   `firestore:"destinationId" json:"destinationId"`
	Name          string   `firestore:"name" json:"name"`
	Slug          string   `firestore:"slug" json:"slug"`
	Country       string   `firestore:"country" json:"country"`
	Continent     string   `firestore:"continent" json:"continent"`
	Description   string   `firestore:"description,omitempty" json:"description,omitempty"`
	ImageURL      string   `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Tags          []string `firestore:"tags,omitempty" json:"tags,omitempty"`
	CityCode      string   `firestore:"cityCode,omitempty" json:"cityCode,omitempty"`

	CreatedAt time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
