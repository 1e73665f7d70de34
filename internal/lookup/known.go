package lookup

import "context"

// Known serves barcodes from a fixed table
type Known struct {
	products map[string]ProductInfo
}

// NewKnown creates a Known source. A nil table uses the built-in products.
func NewKnown(products map[string]ProductInfo) *Known {
	if products == nil {
		products = defaultKnownProducts()
	}
	return &Known{products: products}
}

func (k *Known) Name() string { return "Known Database" }

// Lookup returns a copy of the table entry
func (k *Known) Lookup(_ context.Context, barcode string) (*ProductInfo, error) {
	p, ok := k.products[barcode]
	if !ok {
		return nil, nil
	}
	p.Barcode = barcode
	return &p, nil
}

func defaultKnownProducts() map[string]ProductInfo {
	return map[string]ProductInfo{
		"8901450000898": {
			Name:          "Maggi 2-Minute Noodles Masala",
			Brand:         "Nestlé",
			Category:      CategoryFood,
			Description:   "Instant noodles with masala flavor",
			ShelfLifeDays: 270,
		},
		"8901542001246": {
			Name:          "Nycil Germ Expert Prickly Heat Powder",
			Brand:         "Nycil",
			Category:      CategoryCosmetic,
			Description:   "Antibacterial prickly heat powder with germ protection",
			ShelfLifeDays: 1095,
		},
	}
}
