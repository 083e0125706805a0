package models

import "github.com/shopspring/decimal"

// LineItem is one product entry in the cart. ID is the identity key.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price x quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart keeps line items in insertion order.
type Cart []LineItem

// Find returns the index of the item with id, or -1.
func (c Cart) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Quantity returns the quantity held for id (0 when absent).
func (c Cart) Quantity(id string) int {
	if i := c.Find(id); i >= 0 {
		return c[i].Quantity
	}
	return 0
}

// Count sums all quantities; used for the cart badge.
func (c Cart) Count() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Clone returns an independent copy.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// CartTotals is derived from a Cart and never stored on its own.
type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// TotalsSnapshot is the fixed two-decimal rendering sent with an order.
type TotalsSnapshot struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"deliveryFee"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

func (t CartTotals) Snapshot() TotalsSnapshot {
	return TotalsSnapshot{
		Subtotal:    t.Subtotal.StringFixed(2),
		DeliveryFee: t.DeliveryFee.StringFixed(2),
		Tax:         t.Tax.StringFixed(2),
		Total:       t.Total.StringFixed(2),
	}
}
