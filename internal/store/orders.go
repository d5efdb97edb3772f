package store

import (
	"context"
	"log"

	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/models"
	"github.com/shopspring/decimal"
)

// CreateOrder stores o as given. The total is taken from the client and is
// not checked against the items; a mismatch is only logged.
func CreateOrder(ctx context.Context, db database.Store, o *models.Order) (string, error) {
	id, err := CreateDocument(ctx, db, o)
	if err != nil {
		return "", err
	}

	subtotal := ItemsSubtotal(o.Items)
	total := decimal.NewFromFloat(o.Total)
	if !subtotal.Equal(total) {
		log.Printf("Warning: order %s total %s differs from item subtotal %s", id, total, subtotal)
	}

	return id, nil
}

// ItemsSubtotal sums price * quantity over items using exact decimal
// arithmetic.
func ItemsSubtotal(items []models.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	return subtotal
}
