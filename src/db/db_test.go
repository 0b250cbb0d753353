package db

import (
	"context"
	"testing"
	"time"

	"travexe/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreAddAndGet(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	id, err := store.Add(ctx, Trips, types.JSONB{"tripName": "Bali Getaway", "userId": "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	doc, err := store.Get(ctx, Trips, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())
	assert.Equal(t, "Bali Getaway", doc.Data()["tripName"])

	_, err = store.Get(ctx, Trips, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreUpdateMergesFields(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	id, _ := store.Add(ctx, Bookings, types.JSONB{"bookingStatus": "CONFIRMED", "totalPrice": 100.0})
	err := store.Update(ctx, Bookings, id, types.JSONB{"bookingStatus": "CANCELLED"})
	require.NoError(t, err)

	doc, _ := store.Get(ctx, Bookings, id)
	assert.Equal(t, "CANCELLED", doc.Data()["bookingStatus"])
	assert.Equal(t, 100.0, doc.Data()["totalPrice"])

	err = store.Update(ctx, Bookings, "missing", types.JSONB{"bookingStatus": "CANCELLED"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreFindEq(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	store.Seed(Bookings, "b1", types.JSONB{"userId": "u1", "bookingType": "hotel", "reminderSent": false})
	store.Seed(Bookings, "b2", types.JSONB{"userId": "u1", "bookingType": "flight", "reminderSent": true})
	store.Seed(Bookings, "b3", types.JSONB{"userId": "u2", "bookingType": "hotel", "reminderSent": false})

	docs, err := store.FindEq(ctx, Bookings, types.JSONB{"userId": "u1"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.FindEq(ctx, Bookings, types.JSONB{"userId": "u1", "bookingType": "hotel"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b1", docs[0].ID())

	docs, err = store.FindEq(ctx, Bookings, types.JSONB{"reminderSent": true})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b2", docs[0].ID())
}

func TestMemStoreBatchUpdate(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	store.Seed(Notifications, "n1", types.JSONB{"isRead": false})
	store.Seed(Notifications, "n2", types.JSONB{"isRead": false})

	err := store.BatchUpdate(ctx, []Update{
		{Collection: Notifications, DocID: "n1", Fields: types.JSONB{"isRead": true}},
		{Collection: Notifications, DocID: "n2", Fields: types.JSONB{"isRead": true}},
	})
	require.NoError(t, err)

	docs, _ := store.FindEq(ctx, Notifications, types.JSONB{"isRead": false})
	assert.Empty(t, docs)
}

func TestMemStoreResolvesServerTimestamps(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	id, _ := store.Add(ctx, Bookings, types.JSONB{"createdAt": ServerTimestamp})
	doc, _ := store.Get(ctx, Bookings, id)

	createdAt, ok := doc.Data()["createdAt"].(time.Time)
	require.True(t, ok)
	assert.True(t, createdAt.After(before))
}

func TestMemStoreDataTo(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	store.Seed(Bookings, "b1", types.JSONB{
		"userId":        "u1",
		"bookingType":   "hotel",
		"bookingStatus": "CONFIRMED",
		"totalPrice":    250.5,
	})

	doc, err := store.Get(ctx, Bookings, "b1")
	require.NoError(t, err)

	var out struct {
		UserID     string  `json:"userId"`
		Status     string  `json:"bookingStatus"`
		TotalPrice float64 `json:"totalPrice"`
	}
	require.NoError(t, doc.DataTo(&out))
	assert.Equal(t, "u1", out.UserID)
	assert.Equal(t, "CONFIRMED", out.Status)
	assert.Equal(t, 250.5, out.TotalPrice)
}
