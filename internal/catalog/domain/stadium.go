package domain

import "time"

// Facilities は会場ごとに案内可能な設備の有無を表すフラグ群。
// 各フラグは互いに独立で、画面側の出し分けにそのまま使われる。
type Facilities struct {
	Seats        bool
	Sections     bool
	Floors       bool
	Rooms        bool
	Shops        bool
	Stands       bool
	PickupPoints bool
	Tickets      bool
}

// Stadium represents a venue available for food ordering.
type Stadium struct {
	ID          string
	Name        string
	Description string
	Address     string
	Capacity    int
	Teams       []string
	Color       string
	FloorCount  int
	Facilities  Facilities
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StadiumPatch expresses a partial update; nil fields are left untouched.
type StadiumPatch struct {
	Name        *string
	Description *string
	Address     *string
	Capacity    *int
	Teams       []string
	Color       *string
	FloorCount  *int

	Seats        *bool
	Sections     *bool
	Floors       *bool
	Rooms        *bool
	Shops        *bool
	Stands       *bool
	PickupPoints *bool
	Tickets      *bool
}

// Validate は部分更新として許容できる値かどうかを検査する。
// 元実装の暗黙の型変換をやめ、不正値はここで弾く。
func (p StadiumPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrEmptyName
	}
	if p.Capacity != nil && *p.Capacity < 0 {
		return ErrNegativeCapacity
	}
	if p.FloorCount != nil && *p.FloorCount < 0 {
		return ErrNegativeFloorCount
	}
	return nil
}

// IsEmpty reports whether the patch carries no changes at all.
func (p StadiumPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil &&
		p.Capacity == nil && p.Teams == nil && p.Color == nil && p.FloorCount == nil &&
		p.Seats == nil && p.Sections == nil && p.Floors == nil && p.Rooms == nil &&
		p.Shops == nil && p.Stands == nil && p.PickupPoints == nil && p.Tickets == nil
}

// Update returns a new Stadium with the patch applied and the update
// timestamp refreshed. The receiver is not modified.
func (s Stadium) Update(patch StadiumPatch, now time.Time) Stadium {
	next := s
	next.Teams = append([]string(nil), s.Teams...)

	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Address != nil {
		next.Address = *patch.Address
	}
	if patch.Capacity != nil {
		next.Capacity = *patch.Capacity
	}
	if patch.Teams != nil {
		next.Teams = append([]string(nil), patch.Teams...)
	}
	if patch.Color != nil {
		next.Color = *patch.Color
	}
	if patch.FloorCount != nil {
		next.FloorCount = *patch.FloorCount
	}
	if patch.Seats != nil {
		next.Facilities.Seats = *patch.Seats
	}
	if patch.Sections != nil {
		next.Facilities.Sections = *patch.Sections
	}
	if patch.Floors != nil {
		next.Facilities.Floors = *patch.Floors
	}
	if patch.Rooms != nil {
		next.Facilities.Rooms = *patch.Rooms
	}
	if patch.Shops != nil {
		next.Facilities.Shops = *patch.Shops
	}
	if patch.Stands != nil {
		next.Facilities.Stands = *patch.Stands
	}
	if patch.PickupPoints != nil {
		next.Facilities.PickupPoints = *patch.PickupPoints
	}
	if patch.Tickets != nil {
		next.Facilities.Tickets = *patch.Tickets
	}

	next.UpdatedAt = now.UTC()
	return next
}
