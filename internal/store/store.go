// Package store persists typed records in a document store. Collection is
// implemented by MongoCollection for production and MemoryCollection for
// tests and local runs without MONGODB_URI.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned for unknown ids and for ids that are not
	// well-formed ObjectIDs.
	ErrNotFound = errors.New("record not found")
)

// DefaultLimit bounds list queries that do not specify a limit.
const DefaultLimit = 10

// Record is implemented by every persisted model.
type Record interface {
	RecordID() primitive.ObjectID
	SetRecordID(id primitive.ObjectID)
	Created() time.Time
	// SetCreated stamps t unless a creation time is already set.
	SetCreated(t time.Time)
	ClearCreated()
}

// recordPtr lets generic collections call Record methods on *T.
type recordPtr[T any] interface {
	*T
	Record
}

// ListOptions narrows a List call. Filter supports field equality only.
type ListOptions struct {
	Limit  int64
	Filter bson.M
}

func (o ListOptions) limit() int64 {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Options configures a collection.
type Options struct {
	// SortField is the bson name of the creation timestamp used for
	// newest-first listing.
	SortField string
	// Unique lists bson fields that must not repeat across the collection.
	Unique []string
}

// Collection is the document store contract used by handlers and the
// submission workflow.
type Collection[T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	List(ctx context.Context, opts ListOptions) ([]*T, error)
	// Update applies set to the record, validates the result and returns it.
	Update(ctx context.Context, id string, set bson.M) (*T, error)
	// Delete removes the record and returns it so callers can release
	// resources it owned.
	Delete(ctx context.Context, id string) (*T, error)
}

// ParseID converts a hex id into an ObjectID, mapping malformed input to
// ErrNotFound.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// prepare stamps and validates a record ahead of insertion. Timestamps are
// kept at millisecond precision, the resolution of BSON dates.
func prepare[T any, P recordPtr[T]](rec *T, now time.Time) error {
	p := P(rec)
	if p.RecordID().IsZero() {
		p.SetRecordID(primitive.NewObjectID())
	}
	p.SetCreated(now.Truncate(time.Millisecond))
	return Validate(rec)
}

// applyPatch returns a copy of rec with set merged in, going through bson so
// field names match the stored representation.
func applyPatch[T any](rec *T, set bson.M) (*T, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	for k, v := range set {
		doc[k] = v
	}
	merged, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	var out T
	if err := bson.Unmarshal(merged, &out); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"body": "field has the wrong type"}}
	}
	return &out, nil
}

// clone deep-copies a record via bson.
func clone[T any](rec *T) (*T, error) {
	return applyPatch(rec, nil)
}
