package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyName          = errors.New("name is required")
	ErrNegativeCapacity   = errors.New("capacity must not be negative")
	ErrNegativeFloorCount = errors.New("floor count must not be negative")
	ErrNegativeFee        = errors.New("delivery fee must not be negative")
)

// Currency is an ISO 4217 style three-letter code, stored upper-case.
type Currency string

func NewCurrency(value string) (Currency, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if len(trimmed) != 3 {
		return "", fmt.Errorf("invalid currency code: %q", value)
	}
	for _, r := range trimmed {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("invalid currency code: %q", value)
		}
	}
	return Currency(trimmed), nil
}

func (c Currency) String() string {
	return string(c)
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return hour*60 + minute, nil
}
