// Package cart holds the checkout arithmetic shared by quote handlers.
// 合計金額の計算はクライアント側と一致している必要があるため、ここに集約する。
package cart

import (
	"errors"
	"fmt"
)

// perUnitDeliveryFee is charged once per ordered unit, independent of price.
const perUnitDeliveryFee = 2.0

var ErrItemNotFound = errors.New("cart item not found")

// Item is a single cart line.
type Item struct {
	ID       string
	Name     string
	Price    float64
	Currency string
	Quantity int
	Images   []string
}

// Cart is an ordered collection of items.
type Cart struct {
	Items []Item
}

// Validate checks every line for a usable id, price and quantity.
func (c Cart) Validate() error {
	for i, item := range c.Items {
		if item.ID == "" {
			return fmt.Errorf("item %d: id is required", i)
		}
		if item.Price < 0 {
			return fmt.Errorf("item %q: price must not be negative", item.ID)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %q: quantity must be positive", item.ID)
		}
	}
	return nil
}

// TotalQuantity は全明細の数量合計。
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of price × quantity over all lines.
func (c Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// DeliveryFee is two currency units per ordered item.
func (c Cart) DeliveryFee() float64 {
	return perUnitDeliveryFee * float64(c.TotalQuantity())
}

// Tip is fixed at zero.
func (c Cart) Tip() float64 { return 0 }

// Discount is fixed at zero.
func (c Cart) Discount() float64 { return 0 }

// Total combines subtotal and delivery fee with tip and discount.
func (c Cart) Total() float64 {
	return c.Subtotal() + c.DeliveryFee() + c.Tip() - c.Discount()
}

// Add merges the item into the cart, increasing quantity when the id is
// already present.
func (c *Cart) Add(item Item) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Decrement lowers the quantity of the identified line by one. A line at
// quantity 1 is left untouched and removalRequired is reported instead, so
// the caller can ask for confirmation before dropping the line.
func (c *Cart) Decrement(id string) (removalRequired bool, err error) {
	for i := range c.Items {
		if c.Items[i].ID != id {
			continue
		}
		if c.Items[i].Quantity <= 1 {
			return true, nil
		}
		c.Items[i].Quantity--
		return false, nil
	}
	return false, ErrItemNotFound
}

// Remove drops the identified line entirely.
func (c *Cart) Remove(id string) error {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}
