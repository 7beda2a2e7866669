package domain

import "time"

// DeliveryPolicy は店舗の配達区分（スタンド内/スタンド外）ごとの条件を表す。
type DeliveryPolicy struct {
	Enabled   bool
	Fee       float64
	Currency  Currency
	OpenTime  string
	CloseTime string
	Locations []string
}

// OpenAt reports whether the delivery window covers t. Windows whose hours
// are unset are treated as always open; a close time earlier than the open
// time spans midnight.
func (p DeliveryPolicy) OpenAt(t time.Time) bool {
	if p.OpenTime == "" || p.CloseTime == "" {
		return true
	}
	open, err := parseClock(p.OpenTime)
	if err != nil {
		return true
	}
	close, err := parseClock(p.CloseTime)
	if err != nil {
		return true
	}

	minute := t.Hour()*60 + t.Minute()
	if open <= close {
		return minute >= open && minute < close
	}
	return minute >= open || minute < close
}

// Shop represents a food shop tied to a stadium.
type Shop struct {
	ID              string
	Name            string
	Location        string
	FloorGate       string
	Admins          []string
	StadiumID       string
	Latitude        float64
	Longitude       float64
	ImageURL        string
	DeliveryFee     float64
	Available       bool
	InsideDelivery  DeliveryPolicy
	OutsideDelivery DeliveryPolicy
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDeliveryPolicy validates loosely-typed policy input and returns a
// structured policy or a validation error.
func NewDeliveryPolicy(enabled bool, fee float64, currency, open, close string, locations []string) (DeliveryPolicy, error) {
	if fee < 0 {
		return DeliveryPolicy{}, ErrNegativeFee
	}
	cur := Currency("")
	if currency != "" {
		parsed, err := NewCurrency(currency)
		if err != nil {
			return DeliveryPolicy{}, err
		}
		cur = parsed
	}
	if open != "" {
		if _, err := parseClock(open); err != nil {
			return DeliveryPolicy{}, err
		}
	}
	if close != "" {
		if _, err := parseClock(close); err != nil {
			return DeliveryPolicy{}, err
		}
	}
	return DeliveryPolicy{
		Enabled:   enabled,
		Fee:       fee,
		Currency:  cur,
		OpenTime:  open,
		CloseTime: close,
		Locations: append([]string(nil), locations...),
	}, nil
}
