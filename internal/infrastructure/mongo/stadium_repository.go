package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
)

// StadiumRepository implements application.StadiumRepository using MongoDB.
type StadiumRepository struct {
	collection *mongo.Collection
}

// NewStadiumRepository creates a Mongo-backed stadium repository.
func NewStadiumRepository(db *mongo.Database, collectionName string) *StadiumRepository {
	return &StadiumRepository{collection: db.Collection(collectionName)}
}

// Find returns all stadiums sorted by name.
func (r *StadiumRepository) Find(ctx context.Context) ([]domain.Stadium, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stadiums := make([]domain.Stadium, 0)
	for cursor.Next(ctx) {
		var doc StadiumDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		stadiums = append(stadiums, MapStadiumDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stadiums, nil
}

// FindByID returns a single stadium by its identifier.
func (r *StadiumRepository) FindByID(ctx context.Context, id string) (*domain.Stadium, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var doc StadiumDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	stadium := MapStadiumDocument(doc)
	return &stadium, nil
}

// Patch applies a partial update and returns the resulting stadium. The
// update timestamp is refreshed together with the patched fields.
func (r *StadiumRepository) Patch(ctx context.Context, id string, patch domain.StadiumPatch) (*domain.Stadium, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	set := buildPatchDocument(patch)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc StadiumDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	stadium := MapStadiumDocument(doc)
	return &stadium, nil
}

func buildPatchDocument(patch domain.StadiumPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Capacity != nil {
		set["capacity"] = *patch.Capacity
	}
	if patch.Teams != nil {
		set["teams"] = patch.Teams
	}
	if patch.Color != nil {
		set["color"] = *patch.Color
	}
	if patch.FloorCount != nil {
		set["floorCount"] = *patch.FloorCount
	}
	if patch.Seats != nil {
		set["facilities.seats"] = *patch.Seats
	}
	if patch.Sections != nil {
		set["facilities.sections"] = *patch.Sections
	}
	if patch.Floors != nil {
		set["facilities.floors"] = *patch.Floors
	}
	if patch.Rooms != nil {
		set["facilities.rooms"] = *patch.Rooms
	}
	if patch.Shops != nil {
		set["facilities.shops"] = *patch.Shops
	}
	if patch.Stands != nil {
		set["facilities.stands"] = *patch.Stands
	}
	if patch.PickupPoints != nil {
		set["facilities.pickupPoints"] = *patch.PickupPoints
	}
	if patch.Tickets != nil {
		set["facilities.tickets"] = *patch.Tickets
	}
	return set
}
