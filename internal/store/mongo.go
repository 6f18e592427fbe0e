package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/virajo/backoffice/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection implements Collection on a MongoDB collection. Records use
// ObjectIDs in "_id"; a malformed id never reaches the server.
type MongoCollection[T any, P recordPtr[T]] struct {
	col  *mongo.Collection
	opts Options
}

// NewMongoCollection wraps col and ensures the sort and unique indexes exist.
func NewMongoCollection[T any, P recordPtr[T]](ctx context.Context, col *mongo.Collection, opts Options) *MongoCollection[T, P] {
	var models []mongo.IndexModel
	if opts.SortField != "" {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: opts.SortField, Value: -1}}})
	}
	for _, f := range opts.Unique {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}, Options: options.Index().SetUnique(true)})
	}
	if len(models) > 0 {
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			logger.Warnf("store: ensure indexes on %s: %v", col.Name(), err)
		}
	}
	return &MongoCollection[T, P]{col: col, opts: opts}
}

func (m *MongoCollection[T, P]) Create(ctx context.Context, rec *T) error {
	if err := prepare[T, P](rec, time.Now().UTC()); err != nil {
		return err
	}
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return m.translate(err)
	}
	return nil
}

func (m *MongoCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return m.FindOne(ctx, bson.M{"_id": oid})
}

func (m *MongoCollection[T, P]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var d T
	if err := m.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", m.col.Name(), err)
	}
	return &d, nil
}

func (m *MongoCollection[T, P]) List(ctx context.Context, opts ListOptions) ([]*T, error) {
	filter := opts.Filter
	if filter == nil {
		filter = bson.M{}
	}
	findOpts := options.Find().SetLimit(opts.limit())
	if m.opts.SortField != "" {
		findOpts.SetSort(bson.D{{Key: m.opts.SortField, Value: -1}})
	}
	cur, err := m.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.col.Name(), err)
	}
	defer cur.Close(ctx)
	out := []*T{}
	for cur.Next(ctx) {
		var d T
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", m.col.Name(), err)
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

// Update validates the merged record before writing only the changed fields.
func (m *MongoCollection[T, P]) Update(ctx context.Context, id string, set bson.M) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	current, err := m.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	updated, err := applyPatch(current, set)
	if err != nil {
		return nil, err
	}
	if err := Validate(updated); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return updated, nil
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, m.translate(err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (m *MongoCollection[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	var d T
	if err := m.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete %s: %w", m.col.Name(), err)
	}
	return &d, nil
}

// translate maps unique-index violations onto ValidationError.
func (m *MongoCollection[T, P]) translate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		field := "record"
		if len(m.opts.Unique) == 1 {
			field = m.opts.Unique[0]
		}
		return duplicateError(field)
	}
	return fmt.Errorf("write %s: %w", m.col.Name(), err)
}
