package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
)

// ShopRepository implements application.ShopRepository using MongoDB.
type ShopRepository struct {
	collection *mongo.Collection
}

// NewShopRepository creates a Mongo-backed shop repository.
func NewShopRepository(db *mongo.Database, collectionName string) *ShopRepository {
	return &ShopRepository{collection: db.Collection(collectionName)}
}

// FindByStadium returns every shop linked to the stadium, available first.
func (r *ShopRepository) FindByStadium(ctx context.Context, stadiumID string) ([]domain.Shop, error) {
	filter := bson.M{"stadiumId": strings.TrimSpace(stadiumID)}
	opts := options.Find().SetSort(bson.D{{Key: "available", Value: -1}, {Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	shops := make([]domain.Shop, 0)
	for cursor.Next(ctx) {
		var doc ShopDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		shop, err := MapShopDocument(doc)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}

// FindByID returns a single shop by its identifier.
func (r *ShopRepository) FindByID(ctx context.Context, id string) (*domain.Shop, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var doc ShopDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	shop, err := MapShopDocument(doc)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}
