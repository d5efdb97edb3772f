package store

import (
	"context"

	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/models"
)

// ProductFilter is the body of a product listing request.
type ProductFilter struct {
	Category *string `json:"category"`
	Featured *bool   `json:"featured"`
	Limit    *int    `json:"limit"`
}

// Filter keeps only the criteria the caller actually set. An empty category
// counts as unset.
func (f ProductFilter) Filter() *models.Filter {
	filter := models.NewFilter()
	if f.Category != nil && *f.Category != "" {
		filter.Eq("category", *f.Category)
	}
	if f.Featured != nil {
		filter.Eq("featured", *f.Featured)
	}
	return filter
}

func (f ProductFilter) EffectiveLimit() int {
	if f.Limit == nil || *f.Limit <= 0 {
		return DefaultLimit
	}
	return *f.Limit
}

func ListProducts(ctx context.Context, db database.Store, f ProductFilter) ([]models.Document, error) {
	return GetDocuments(ctx, db, models.KindJewelryProduct, f.Filter(), f.EffectiveLimit())
}

func CreateProduct(ctx context.Context, db database.Store, p *models.JewelryProduct) (string, error) {
	return CreateDocument(ctx, db, p)
}
