package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryCollection is an in-memory Collection used by unit tests and as the
// fallback when no MongoDB URI is configured. Records are copied on the way
// in and out so callers never share state with the store.
type MemoryCollection[T any, P recordPtr[T]] struct {
	mu     sync.RWMutex
	opts   Options
	store  map[string]*T
	nowFun func() time.Time
}

func NewMemoryCollection[T any, P recordPtr[T]](opts Options) *MemoryCollection[T, P] {
	return &MemoryCollection[T, P]{opts: opts, store: make(map[string]*T), nowFun: time.Now}
}

func (m *MemoryCollection[T, P]) Create(ctx context.Context, rec *T) error {
	if err := prepare[T, P](rec, m.nowFun().UTC()); err != nil {
		return err
	}
	cp, err := clone(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(cp, ""); err != nil {
		return err
	}
	m.store[P(cp).RecordID().Hex()] = cp
	return nil
}

func (m *MemoryCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[oid.Hex()]; ok {
		return clone(d)
	}
	return nil, ErrNotFound
}

func (m *MemoryCollection[T, P]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.sorted() {
		ok, err := matches(d, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			return clone(d)
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryCollection[T, P]) List(ctx context.Context, opts ListOptions) ([]*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*T{}
	for _, d := range m.sorted() {
		if int64(len(out)) >= opts.limit() {
			break
		}
		ok, err := matches(d, opts.Filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		cp, err := clone(d)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

func (m *MemoryCollection[T, P]) Update(ctx context.Context, id string, set bson.M) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[oid.Hex()]
	if !ok {
		return nil, ErrNotFound
	}
	updated, err := applyPatch(d, set)
	if err != nil {
		return nil, err
	}
	if err := Validate(updated); err != nil {
		return nil, err
	}
	if err := m.checkUnique(updated, oid.Hex()); err != nil {
		return nil, err
	}
	m.store[oid.Hex()] = updated
	return clone(updated)
}

func (m *MemoryCollection[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[oid.Hex()]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.store, oid.Hex())
	return d, nil
}

// sorted returns the stored records newest first. Caller holds the lock.
func (m *MemoryCollection[T, P]) sorted() []*T {
	out := make([]*T, 0, len(m.store))
	for _, d := range m.store {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return P(out[i]).Created().After(P(out[j]).Created())
	})
	return out
}

// checkUnique enforces Options.Unique, ignoring the record with id skip.
// Caller holds the write lock.
func (m *MemoryCollection[T, P]) checkUnique(rec *T, skip string) error {
	if len(m.opts.Unique) == 0 {
		return nil
	}
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	for id, other := range m.store {
		if id == skip {
			continue
		}
		od, err := toDoc(other)
		if err != nil {
			return err
		}
		for _, field := range m.opts.Unique {
			if reflect.DeepEqual(doc[field], od[field]) {
				return duplicateError(field)
			}
		}
	}
	return nil
}

func matches[T any](rec *T, filter bson.M) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	doc, err := toDoc(rec)
	if err != nil {
		return false, err
	}
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false, nil
		}
	}
	return true, nil
}

func toDoc[T any](rec *T) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	return doc, bson.Unmarshal(raw, &doc)
}

func duplicateError(field string) error {
	return &ValidationError{Fields: map[string]string{field: field + " already exists"}}
}
