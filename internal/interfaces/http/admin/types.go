package admin

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
