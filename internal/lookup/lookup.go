// Package lookup resolves a barcode to product details using an ordered chain
// of sources, from a local table to public product databases and finally a
// prefix based guess.
package lookup

import (
	"context"
	"log/slog"
	"strings"
)

// Category names returned by MapCategory
const (
	CategoryFood     = "food"
	CategoryMedicine = "medicine"
	CategoryCosmetic = "cosmetic"
	CategoryOther    = "other"
)

// DefaultShelfLifeDays is used when nothing about the category is known
const DefaultShelfLifeDays = 365

// ProductInfo holds what a source knows about a barcode
type ProductInfo struct {
	Barcode       string `json:"barcode"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Ingredients   string `json:"ingredients,omitempty"`
	ShelfLifeDays int    `json:"shelfLifeDays"`
	Source        string `json:"source"`
}

// Source looks up a single barcode. A nil ProductInfo with a nil error means
// the source does not know the barcode.
type Source interface {
	Name() string
	Lookup(ctx context.Context, barcode string) (*ProductInfo, error)
}

// Chain asks each source in order and returns the first hit
type Chain struct {
	sources []Source
}

// NewChain creates a Chain over sources, tried in the order given
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Lookup returns the first non-nil result. Source errors are logged and the
// next source is tried; (nil, nil) is returned when every source misses.
func (c *Chain) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := src.Lookup(ctx, barcode)
		if err != nil {
			slog.Warn("Barcode lookup failed", "source", src.Name(), "barcode", barcode, "error", err)
			continue
		}
		if info == nil {
			slog.Debug("Barcode not found", "source", src.Name(), "barcode", barcode)
			continue
		}

		if info.Barcode == "" {
			info.Barcode = barcode
		}
		if info.Source == "" {
			info.Source = src.Name()
		}
		slog.Info("Barcode resolved", "source", info.Source, "barcode", barcode, "name", info.Name)
		return info, nil
	}
	return nil, nil
}

// MapCategory folds a free-form category string from a product database into
// one of the Category constants.
func MapCategory(categories string) string {
	c := strings.ToLower(categories)
	switch {
	case c == "":
		return CategoryOther
	case containsAny(c, "food", "beverage", "dairy", "meat", "fruit", "vegetable", "snack", "drink", "edible"):
		return CategoryFood
	case containsAny(c, "medicine", "health", "pharmaceutical", "drug", "vitamin", "supplement", "medical"):
		return CategoryMedicine
	case containsAny(c, "cosmetic", "beauty", "skincare", "makeup", "perfume", "fragrance", "personal care", "hygiene"):
		return CategoryCosmetic
	default:
		return CategoryOther
	}
}

// EstimateShelfLife returns a rough shelf life in days for a category string.
// The more specific perishable words are checked before the broad ones.
func EstimateShelfLife(category string) int {
	c := strings.ToLower(category)
	switch {
	case containsAny(c, "milk", "dairy"):
		return 7
	case containsAny(c, "bread", "bakery"):
		return 5
	case containsAny(c, "meat", "fish"):
		return 3
	case containsAny(c, "fruit", "vegetable"):
		return 7
	case strings.Contains(c, "food"):
		return 30
	case containsAny(c, "medicine", "pharmaceutical"):
		return 730
	case containsAny(c, "cosmetic", "perfume", "beauty"):
		return 1095
	default:
		return DefaultShelfLifeDays
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
