// internal/app/store/kv/mongo.go
package kv

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the single collection holding every entity and index
// entry. The encoded key is the document _id, so Mongo's _id index gives
// ordered prefix scans for free via a range query.
const CollectionName = "kv_entries"

// Mongo is the production Store backend.
type Mongo struct {
	c *mongo.Collection
}

// NewMongo wraps the kv collection of db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{c: db.Collection(CollectionName)}
}

// document is the stored shape of one entry. Key is kept alongside the
// encoded _id so scans can return decoded tuples without re-splitting.
type document struct {
	ID    string   `bson:"_id"`
	Key   []string `bson:"key"`
	Value []byte   `bson:"value"`
}

func (s *Mongo) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	var doc document
	err := s.c.FindOne(ctx, bson.M{"_id": key.Encode()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %s: %w", key.Encode(), err)
	}
	return doc.Value, true, nil
}

func (s *Mongo) Set(ctx context.Context, key Key, value []byte) error {
	doc := document{ID: key.Encode(), Key: key, Value: value}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("kv set %s: %w", doc.ID, err)
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, key Key) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": key.Encode()}); err != nil {
		return fmt.Errorf("kv delete %s: %w", key.Encode(), err)
	}
	return nil
}

func (s *Mongo) Scan(ctx context.Context, prefix Key) ([]Entry, error) {
	low, high := scanBounds(prefix)
	filter := bson.M{"_id": bson.M{"$gte": low, "$lt": high}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("kv scan %s: %w", prefix.Encode(), err)
	}
	defer cur.Close(ctx)

	var entries []Entry
	for cur.Next(ctx) {
		var doc document
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("kv scan %s: decode: %w", prefix.Encode(), err)
		}
		entries = append(entries, Entry{Key: Key(doc.Key), Value: doc.Value})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("kv scan %s: %w", prefix.Encode(), err)
	}
	return entries, nil
}
