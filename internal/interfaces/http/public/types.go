package public

import (
	"time"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
)

type facilitiesResponse struct {
	Seats        bool `json:"hasSeats"`
	Sections     bool `json:"hasSections"`
	Floors       bool `json:"hasFloors"`
	Rooms        bool `json:"hasRooms"`
	Shops        bool `json:"hasShops"`
	Stands       bool `json:"hasStands"`
	PickupPoints bool `json:"hasPickupPoints"`
	Tickets      bool `json:"hasTickets"`
}

type stadiumResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Address     string             `json:"address"`
	Capacity    int                `json:"capacity"`
	Teams       []string           `json:"teams"`
	Color       string             `json:"color"`
	FloorCount  int                `json:"floorCount"`
	Facilities  facilitiesResponse `json:"facilities"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type deliveryPolicyResponse struct {
	Enabled   bool     `json:"enabled"`
	Fee       float64  `json:"fee"`
	Currency  string   `json:"currency,omitempty"`
	OpenTime  string   `json:"openTime,omitempty"`
	CloseTime string   `json:"closeTime,omitempty"`
	Locations []string `json:"locations,omitempty"`
	OpenNow   bool     `json:"openNow"`
}

type shopResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Location        string                 `json:"location"`
	FloorGate       string                 `json:"floorGate,omitempty"`
	StadiumID       string                 `json:"stadiumId"`
	Latitude        float64                `json:"latitude"`
	Longitude       float64                `json:"longitude"`
	ImageURL        string                 `json:"imageUrl,omitempty"`
	DeliveryFee     float64                `json:"deliveryFee"`
	Available       bool                   `json:"available"`
	InsideDelivery  deliveryPolicyResponse `json:"insideDelivery"`
	OutsideDelivery deliveryPolicyResponse `json:"outsideDelivery"`
}

type cartItemRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Quantity int      `json:"quantity"`
	Images   []string `json:"images"`
}

type cartQuoteRequest struct {
	Items []cartItemRequest `json:"items"`
}

type cartQuoteResponse struct {
	Subtotal      float64 `json:"subtotal"`
	DeliveryFee   float64 `json:"deliveryFee"`
	Tip           float64 `json:"tip"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
	TotalQuantity int     `json:"totalQuantity"`
}

type createIntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type createIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type airwallexTestRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type ratesResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

type newOrderRequest struct {
	OrderID        string  `json:"orderId"`
	ShopID         string  `json:"shopId"`
	ShopName       string  `json:"shopName"`
	DeliveryUserID string  `json:"deliveryUserId"`
	Total          float64 `json:"total"`
	Currency       string  `json:"currency"`
}

type statusUpdateRequest struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Status  string `json:"status"`
}

func newStadiumResponse(s domain.Stadium) stadiumResponse {
	teams := s.Teams
	if teams == nil {
		teams = []string{}
	}
	return stadiumResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Address:     s.Address,
		Capacity:    s.Capacity,
		Teams:       teams,
		Color:       s.Color,
		FloorCount:  s.FloorCount,
		Facilities: facilitiesResponse{
			Seats:        s.Facilities.Seats,
			Sections:     s.Facilities.Sections,
			Floors:       s.Facilities.Floors,
			Rooms:        s.Facilities.Rooms,
			Shops:        s.Facilities.Shops,
			Stands:       s.Facilities.Stands,
			PickupPoints: s.Facilities.PickupPoints,
			Tickets:      s.Facilities.Tickets,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func newDeliveryPolicyResponse(p domain.DeliveryPolicy, now time.Time) deliveryPolicyResponse {
	return deliveryPolicyResponse{
		Enabled:   p.Enabled,
		Fee:       p.Fee,
		Currency:  string(p.Currency),
		OpenTime:  p.OpenTime,
		CloseTime: p.CloseTime,
		Locations: p.Locations,
		OpenNow:   p.OpenAt(now),
	}
}

func newShopResponse(s domain.Shop, now time.Time) shopResponse {
	return shopResponse{
		ID:              s.ID,
		Name:            s.Name,
		Location:        s.Location,
		FloorGate:       s.FloorGate,
		StadiumID:       s.StadiumID,
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
		ImageURL:        s.ImageURL,
		DeliveryFee:     s.DeliveryFee,
		Available:       s.Available,
		InsideDelivery:  newDeliveryPolicyResponse(s.InsideDelivery, now),
		OutsideDelivery: newDeliveryPolicyResponse(s.OutsideDelivery, now),
	}
}
