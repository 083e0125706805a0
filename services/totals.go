package services

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/burger-storefront/models"
)

// ComputeTotals derives the cart totals. Subtotal and tax are rounded to two
// decimals before the total is summed, so total = subtotal + fee + tax exactly.
func ComputeTotals(cart models.Cart, deliveryFee, taxRate float64) models.CartTotals {
	subtotal := decimal.Zero
	for _, item := range cart {
		subtotal = subtotal.Add(item.LineTotal())
	}

	fee := decimal.NewFromFloat(deliveryFee).Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	subtotal = subtotal.Round(2)

	return models.CartTotals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
