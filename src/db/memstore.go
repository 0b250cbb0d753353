package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"travexe/src/types"
)

// MemStore is the in-process Store used by the test suites in place of a
// live Firestore project.
type MemStore struct {
	mu          sync.Mutex
	collections map[string]map[string]types.JSONB
	seq         int
}

func NewMemStore() *MemStore {
	return &MemStore{collections: make(map[string]map[string]types.JSONB)}
}

type memDocument struct {
	id   string
	data types.JSONB
}

func (d *memDocument) ID() string {
	return d.id
}

func (d *memDocument) DataTo(v any) error {
	b, err := json.Marshal(d.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (d *memDocument) Data() types.JSONB {
	return d.data
}

func (m *MemStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &memDocument{id: id, data: cloneDoc(data)}, nil
}

func (m *MemStore) Add(ctx context.Context, collection string, data types.JSONB) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]types.JSONB)
	}
	m.seq++
	id := fmt.Sprintf("doc%06d", m.seq)
	m.collections[collection][id] = resolveMemSentinels(data)
	return id, nil
}

func (m *MemStore) Update(ctx context.Context, collection, id string, fields types.JSONB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range resolveMemSentinels(fields) {
		doc[k] = v
	}
	return nil
}

func (m *MemStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

func (m *MemStore) FindEq(ctx context.Context, collection string, filters types.JSONB) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var docs []Document
	for id, data := range m.collections[collection] {
		match := true
		for field, want := range filters {
			if fmt.Sprint(data[field]) != fmt.Sprint(want) {
				match = false
				break
			}
		}
		if match {
			docs = append(docs, &memDocument{id: id, data: cloneDoc(data)})
		}
	}
	return docs, nil
}

func (m *MemStore) BatchUpdate(ctx context.Context, updates []Update) error {
	for _, u := range updates {
		if err := m.Update(ctx, u.Collection, u.DocID, u.Fields); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts a document with a fixed id, bypassing id generation.
func (m *MemStore) Seed(collection, id string, data types.JSONB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]types.JSONB)
	}
	m.collections[collection][id] = resolveMemSentinels(data)
}

func resolveMemSentinels(fields types.JSONB) types.JSONB {
	out := make(types.JSONB, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = time.Now().UTC()
			continue
		}
		out[k] = v
	}
	return out
}

func cloneDoc(data types.JSONB) types.JSONB {
	out := make(types.JSONB, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
