package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TokenRepository resolves device tokens from the user collections. It
// implements notify.TokenDirectory.
type TokenRepository struct {
	shops         *mongo.Collection
	users         *mongo.Collection
	deliveryUsers *mongo.Collection
}

// NewTokenRepository binds the shop and user collections.
func NewTokenRepository(db *mongo.Database, shopCollection, userCollection, deliveryUserCollection string) *TokenRepository {
	return &TokenRepository{
		shops:         db.Collection(shopCollection),
		users:         db.Collection(userCollection),
		deliveryUsers: db.Collection(deliveryUserCollection),
	}
}

// DeliveryUserToken returns the push token registered for a delivery user.
func (r *TokenRepository) DeliveryUserToken(ctx context.Context, deliveryUserID string) (string, error) {
	var doc DeliveryUserDocument
	if err := r.deliveryUsers.FindOne(ctx, bson.M{"_id": strings.TrimSpace(deliveryUserID)}).Decode(&doc); err != nil {
		return "", err
	}
	return doc.FCMToken, nil
}

// ShopAdminTokens は店舗の管理者リストを引き、各管理者の登録トークンを集める。
// トークン未登録の管理者は黙って読み飛ばす。
func (r *TokenRepository) ShopAdminTokens(ctx context.Context, shopID string) ([]string, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(shopID))
	if err != nil {
		return nil, err
	}

	var shop ShopDocument
	if err := r.shops.FindOne(ctx, bson.M{"_id": objectID}).Decode(&shop); err != nil {
		return nil, err
	}
	if len(shop.Admins) == 0 {
		return nil, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": shop.Admins}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tokens := make([]string, 0, len(shop.Admins))
	for cursor.Next(ctx) {
		var user UserDocument
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		if token := strings.TrimSpace(user.FCMToken); token != "" {
			tokens = append(tokens, token)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// CustomerToken returns the push token registered for a customer.
func (r *TokenRepository) CustomerToken(ctx context.Context, userID string) (string, error) {
	var doc UserDocument
	if err := r.users.FindOne(ctx, bson.M{"_id": strings.TrimSpace(userID)}).Decode(&doc); err != nil {
		return "", err
	}
	return doc.FCMToken, nil
}
