package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-process maps. It backs tests and
// development runs without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	seq         uint64
}

type memoryDoc struct {
	data map[string]any
	seq  uint64 // insertion order within the collection
}

// NewMemoryStore creates an empty in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryDoc),
	}
}

// Create writes a document at an explicit id, strictly
func (m *MemoryStore) Create(ctx context.Context, path, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.collections[path]
	if coll == nil {
		coll = make(map[string]*memoryDoc)
		m.collections[path] = coll
	}
	if _, exists := coll[id]; exists {
		return fmt.Errorf("%s/%s: %w", path, id, ErrConflict)
	}

	m.seq++
	coll[id] = &memoryDoc{data: cloneMap(data), seq: m.seq}
	return nil
}

// Get retrieves one document
func (m *MemoryStore) Get(ctx context.Context, path, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[path][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	return cloneMap(doc.data), nil
}

// Add appends a document with a generated id
func (m *MemoryStore) Add(ctx context.Context, path string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := m.Create(ctx, path, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Update merges fields into an existing document
func (m *MemoryStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[path][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	for k, v := range fields {
		doc.data[k] = v
	}
	return nil
}

// Delete removes a document; absent ids are a no-op
func (m *MemoryStore) Delete(ctx context.Context, path, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[path], id)
	return nil
}

// Query lists a collection, ascending by orderBy when given
func (m *MemoryStore) Query(ctx context.Context, path, orderBy string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll := m.collections[path]
	docs := make([]Document, 0, len(coll))
	seqs := make(map[string]uint64, len(coll))
	for id, doc := range coll {
		docs = append(docs, Document{ID: id, Data: cloneMap(doc.data)})
		seqs[id] = doc.seq
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if orderBy == "" {
			return seqs[docs[i].ID] < seqs[docs[j].ID]
		}
		a, _ := docs[i].Data[orderBy].(string)
		b, _ := docs[j].Data[orderBy].(string)
		if a == b {
			return seqs[docs[i].ID] < seqs[docs[j].ID]
		}
		return a < b
	})

	return docs, nil
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
