package lookup

import (
	"context"
	"fmt"
)

// gs1Countries maps GS1 company prefixes to the issuing country
var gs1Countries = map[string]string{
	"000": "USA", "001": "USA", "002": "USA",
	"300": "France", "301": "France", "302": "France",
	"400": "Germany", "401": "Germany", "402": "Germany",
	"690": "China", "691": "China", "692": "China",
	"890": "India", "891": "India", "893": "India",
}

var prefixCategories = map[string]string{
	"8901": CategoryFood,
	"8902": CategoryCosmetic,
	"8903": CategoryMedicine,
	"8904": CategoryCosmetic,
	"8905": CategoryOther,
}

// checkDigitCategories is indexed by the last digit of the barcode
var checkDigitCategories = [10]string{
	CategoryFood, CategoryCosmetic, CategoryMedicine, CategoryCosmetic, CategoryOther,
	CategoryOther, CategoryOther, CategoryOther, CategoryOther, CategoryOther,
}

var prefixBrands = map[string]string{
	"890142": "Hindustan Unilever",
	"890143": "ITC",
	"890144": "Dabur",
	"890145": "Nestlé",
	"890150": "Patanjali",
	"890151": "Emami",
	"890152": "Marico",
	"890154": "Nycil",
}

// Guess derives a best-effort product from the barcode digits alone. It
// never misses, so it belongs at the end of a Chain.
type Guess struct{}

func (Guess) Name() string { return "Barcode Prefix" }

func (g Guess) Lookup(_ context.Context, barcode string) (*ProductInfo, error) {
	category := GuessCategory(barcode)
	brand := "Unknown Brand"
	if len(barcode) >= 6 {
		if b, ok := prefixBrands[barcode[:6]]; ok {
			brand = b
		}
	}

	name := "Unknown Product"
	if len(barcode) >= 4 {
		name = "Product " + barcode[len(barcode)-4:]
	}

	return &ProductInfo{
		Barcode:       barcode,
		Name:          name,
		Brand:         brand,
		Category:      category,
		Description:   fmt.Sprintf("%s product from %s", category, GuessCountry(barcode)),
		ShelfLifeDays: EstimateShelfLife(category),
		Source:        g.Name(),
	}, nil
}

// GuessCountry returns the GS1 issuing country for a barcode, or "Unknown"
func GuessCountry(barcode string) string {
	if len(barcode) < 3 {
		return "Unknown"
	}
	if c, ok := gs1Countries[barcode[:3]]; ok {
		return c
	}
	return "Unknown"
}

// GuessCategory picks a category from the 4 digit prefix, falling back to the
// last digit.
func GuessCategory(barcode string) string {
	if len(barcode) >= 4 {
		if c, ok := prefixCategories[barcode[:4]]; ok {
			return c
		}
	}
	if n := len(barcode); n > 0 {
		if d := barcode[n-1]; d >= '0' && d <= '9' {
			return checkDigitCategories[d-'0']
		}
	}
	return CategoryOther
}
