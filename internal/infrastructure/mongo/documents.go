package mongo

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
)

// FacilitiesDocument はスタジアムの設備フラグ群の埋め込みドキュメント。
type FacilitiesDocument struct {
	Seats        bool `bson:"seats"`
	Sections     bool `bson:"sections"`
	Floors       bool `bson:"floors"`
	Rooms        bool `bson:"rooms"`
	Shops        bool `bson:"shops"`
	Stands       bool `bson:"stands"`
	PickupPoints bool `bson:"pickupPoints"`
	Tickets      bool `bson:"tickets"`
}

// StadiumDocument は MongoDB 上でのスタジアムスキーマを Go 構造体として表現したもの。
type StadiumDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Address     string             `bson:"address,omitempty"`
	Capacity    int                `bson:"capacity,omitempty"`
	Teams       []string           `bson:"teams,omitempty"`
	Color       string             `bson:"color,omitempty"`
	FloorCount  int                `bson:"floorCount,omitempty"`
	Facilities  FacilitiesDocument `bson:"facilities"`
	CreatedAt   *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time         `bson:"updatedAt,omitempty"`
}

// DeliveryPolicyDocument は配達区分の埋め込みドキュメント。
type DeliveryPolicyDocument struct {
	Enabled   bool     `bson:"enabled"`
	Fee       float64  `bson:"fee,omitempty"`
	Currency  string   `bson:"currency,omitempty"`
	OpenTime  string   `bson:"openTime,omitempty"`
	CloseTime string   `bson:"closeTime,omitempty"`
	Locations []string `bson:"locations,omitempty"`
}

// ShopDocument は店舗スキーマを表現する。
type ShopDocument struct {
	ID              primitive.ObjectID     `bson:"_id"`
	Name            string                 `bson:"name"`
	Location        string                 `bson:"location,omitempty"`
	FloorGate       string                 `bson:"floorGate,omitempty"`
	Admins          []string               `bson:"admins,omitempty"`
	StadiumID       string                 `bson:"stadiumId,omitempty"`
	Latitude        float64                `bson:"latitude,omitempty"`
	Longitude       float64                `bson:"longitude,omitempty"`
	ImageURL        string                 `bson:"imageURL,omitempty"`
	DeliveryFee     float64                `bson:"deliveryFee,omitempty"`
	Available       bool                   `bson:"available"`
	InsideDelivery  DeliveryPolicyDocument `bson:"insideDelivery,omitempty"`
	OutsideDelivery DeliveryPolicyDocument `bson:"outsideDelivery,omitempty"`
	CreatedAt       *time.Time             `bson:"createdAt,omitempty"`
	UpdatedAt       *time.Time             `bson:"updatedAt,omitempty"`
}

// RateDocument は currency_rates コレクションの唯一のドキュメント。
type RateDocument struct {
	ID        string             `bson:"_id"`
	Rates     map[string]float64 `bson:"rates"`
	FetchedAt time.Time          `bson:"fetchedAt"`
	ExpiresAt time.Time          `bson:"expiresAt"`
}

// UserDocument は顧客/店舗管理者の通知関連フィールドのみを写像する。
type UserDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name,omitempty"`
	FCMToken string `bson:"fcmToken,omitempty"`
}

// DeliveryUserDocument は配達ユーザーの通知関連フィールドのみを写像する。
type DeliveryUserDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name,omitempty"`
	FCMToken string `bson:"fcmToken,omitempty"`
	Active   bool   `bson:"active,omitempty"`
}

// MapStadiumDocument converts a persisted document into the domain shape.
func MapStadiumDocument(doc StadiumDocument) domain.Stadium {
	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}

	return domain.Stadium{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Address:     doc.Address,
		Capacity:    doc.Capacity,
		Teams:       append([]string{}, doc.Teams...),
		Color:       doc.Color,
		FloorCount:  doc.FloorCount,
		Facilities: domain.Facilities{
			Seats:        doc.Facilities.Seats,
			Sections:     doc.Facilities.Sections,
			Floors:       doc.Facilities.Floors,
			Rooms:        doc.Facilities.Rooms,
			Shops:        doc.Facilities.Shops,
			Stands:       doc.Facilities.Stands,
			PickupPoints: doc.Facilities.PickupPoints,
			Tickets:      doc.Facilities.Tickets,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// NewStadiumDocument serializes a stadium back into its persisted form. The
// creation timestamp is preserved; the update timestamp is refreshed to now.
func NewStadiumDocument(stadium domain.Stadium, now time.Time) (StadiumDocument, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(stadium.ID))
	if err != nil {
		return StadiumDocument{}, err
	}

	createdAt := stadium.CreatedAt
	updatedAt := now.UTC()
	return StadiumDocument{
		ID:          objectID,
		Name:        stadium.Name,
		Description: stadium.Description,
		Address:     stadium.Address,
		Capacity:    stadium.Capacity,
		Teams:       append([]string{}, stadium.Teams...),
		Color:       stadium.Color,
		FloorCount:  stadium.FloorCount,
		Facilities: FacilitiesDocument{
			Seats:        stadium.Facilities.Seats,
			Sections:     stadium.Facilities.Sections,
			Floors:       stadium.Facilities.Floors,
			Rooms:        stadium.Facilities.Rooms,
			Shops:        stadium.Facilities.Shops,
			Stands:       stadium.Facilities.Stands,
			PickupPoints: stadium.Facilities.PickupPoints,
			Tickets:      stadium.Facilities.Tickets,
		},
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}, nil
}

// MapShopDocument converts a persisted shop document into the domain shape,
// validating the structured delivery policies on the way in.
func MapShopDocument(doc ShopDocument) (domain.Shop, error) {
	inside, err := mapDeliveryPolicy(doc.InsideDelivery)
	if err != nil {
		return domain.Shop{}, err
	}
	outside, err := mapDeliveryPolicy(doc.OutsideDelivery)
	if err != nil {
		return domain.Shop{}, err
	}

	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}

	return domain.Shop{
		ID:              doc.ID.Hex(),
		Name:            doc.Name,
		Location:        doc.Location,
		FloorGate:       doc.FloorGate,
		Admins:          append([]string{}, doc.Admins...),
		StadiumID:       strings.TrimSpace(doc.StadiumID),
		Latitude:        doc.Latitude,
		Longitude:       doc.Longitude,
		ImageURL:        doc.ImageURL,
		DeliveryFee:     doc.DeliveryFee,
		Available:       doc.Available,
		InsideDelivery:  inside,
		OutsideDelivery: outside,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

func mapDeliveryPolicy(doc DeliveryPolicyDocument) (domain.DeliveryPolicy, error) {
	return domain.NewDeliveryPolicy(doc.Enabled, doc.Fee, doc.Currency, doc.OpenTime, doc.CloseTime, doc.Locations)
}
