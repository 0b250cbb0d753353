package db

import (
	"context"
	"errors"
	"log"
	"travexe/src/config"
	"travexe/src/lib"
	"travexe/src/types"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Users         = "users"
	Trips         = "trips"
	Destinations  = "destinations"
	Bookings      = "bookings"
	Notifications = "notifications"
	Wishlist      = "wishlist"
)

var ErrNotFound = errors.New("document not found")

// ServerTimestamp marks a field to be stamped by the store on write.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

type Document interface {
	ID() string
	DataTo(v any) error
	Data() types.JSONB
}

type Update struct {
	Collection string
	DocID      string
	Fields     types.JSONB
}

// Store is the document-store contract the handlers and services consume:
// equality-filtered finds, single-document writes and atomic batched updates
// chunked at the store's per-batch ceiling.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Add(ctx context.Context, collection string, data types.JSONB) (string, error)
	Update(ctx context.Context, collection, id string, fields types.JSONB) error
	Delete(ctx context.Context, collection, id string) error
	FindEq(ctx context.Context, collection string, filters types.JSONB) ([]Document, error)
	BatchUpdate(ctx context.Context, updates []Update) error
}

var store Store

func GetStore() Store {
	if store != nil {
		return store
	}
	client, err := lib.GetFirestore()
	if err != nil {
		log.Printf("Error connecting to Firestore: %s\n", err.Error())
		panic(err)
	}
	store = &firestoreStore{client: client}
	return store
}

// NewStore Replace store instance with custom implementation
func NewStore(s Store) Store {
	store = s
	return store
}

type firestoreStore struct {
	client *firestore.Client
}

type firestoreDocument struct {
	snap *firestore.DocumentSnapshot
}

func (d *firestoreDocument) ID() string {
	return d.snap.Ref.ID
}

func (d *firestoreDocument) DataTo(v any) error {
	return d.snap.DataTo(v)
}

func (d *firestoreDocument) Data() types.JSONB {
	return types.JSONB(d.snap.Data())
}

func (f *firestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &firestoreDocument{snap: snap}, nil
}

func (f *firestoreStore) Add(ctx context.Context, collection string, data types.JSONB) (string, error) {
	ref, _, err := f.client.Collection(collection).Add(ctx, resolveSentinels(data))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (f *firestoreStore) Update(ctx context.Context, collection, id string, fields types.JSONB) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, resolveSentinels(fields), firestore.MergeAll)
	if err != nil && status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (f *firestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (f *firestoreStore) FindEq(ctx context.Context, collection string, filters types.JSONB) ([]Document, error) {
	q := f.client.Collection(collection).Query
	for field, value := range filters {
		q = q.Where(field, "==", value)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, &firestoreDocument{snap: snap})
	}
	return docs, nil
}

// BatchUpdate commits the staged updates in chunks of MAX_BATCH_WRITES.
// Each chunk is atomic; there is no atomicity across chunks.
func (f *firestoreStore) BatchUpdate(ctx context.Context, updates []Update) error {
	for start := 0; start < len(updates); start += config.MAX_BATCH_WRITES {
		end := min(start+config.MAX_BATCH_WRITES, len(updates))
		batch := f.client.Batch()
		for _, u := range updates[start:end] {
			ref := f.client.Collection(u.Collection).Doc(u.DocID)
			batch.Set(ref, resolveSentinels(u.Fields), firestore.MergeAll)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

func resolveSentinels(fields types.JSONB) types.JSONB {
	out := make(types.JSONB, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
