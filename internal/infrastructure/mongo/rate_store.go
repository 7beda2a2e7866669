package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stadimeshi/services/api/internal/currency"
)

// latestRateKey is the well-known id of the single cached rate document.
const latestRateKey = "latest"

// RateStore persists the cached exchange rates. It implements
// currency.RateStore.
type RateStore struct {
	collection *mongo.Collection
}

// NewRateStore binds the currency_rates collection.
func NewRateStore(db *mongo.Database, collectionName string) *RateStore {
	return &RateStore{collection: db.Collection(collectionName)}
}

// Latest returns the cached rate document, or nil when none exists yet.
func (s *RateStore) Latest(ctx context.Context) (*currency.Rates, error) {
	var doc RateDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": latestRateKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &currency.Rates{
		Values:    doc.Rates,
		FetchedAt: doc.FetchedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

// Save upserts the well-known document with the fresh rate set.
// 同時刷新が競合しても後勝ちで同等のデータが書かれるだけなのでロックは持たない。
func (s *RateStore) Save(ctx context.Context, rates currency.Rates) error {
	doc := RateDocument{
		ID:        latestRateKey,
		Rates:     rates.Values,
		FetchedAt: rates.FetchedAt,
		ExpiresAt: rates.ExpiresAt,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": latestRateKey}, doc, opts)
	return err
}
