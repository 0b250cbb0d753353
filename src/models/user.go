package models

import "time"

type User struct {
	UID        string    `firestore:"uid" json:"uid"`
	Name       string    `firestore:"name" json:"name"`
	Email      string    `firestore:"email" json:"email"`
	PhotoURL   string    `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	Phone      string    `firestore:"phone,omitempty" json:"phone,omitempty"`
	LastActive time.Time `firestore:"lastActive,omitempty" json:"lastActive,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt  time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
