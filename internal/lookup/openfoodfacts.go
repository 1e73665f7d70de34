package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OpenFoodFacts looks barcodes up in the Open Food Facts product database
type OpenFoodFacts struct {
	baseURL string
	client  *http.Client
}

// NewOpenFoodFacts creates an Open Food Facts source. baseURL defaults to the
// public world instance.
func NewOpenFoodFacts(baseURL string) *OpenFoodFacts {
	if baseURL == "" {
		baseURL = "https://world.openfoodfacts.org"
	}
	return &OpenFoodFacts{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (o *OpenFoodFacts) Name() string { return "OpenFoodFacts" }

type offResponse struct {
	Status  int `json:"status"`
	Product *struct {
		ProductName     string `json:"product_name"`
		GenericName     string `json:"generic_name"`
		Brands          string `json:"brands"`
		Categories      string `json:"categories"`
		IngredientsText string `json:"ingredients_text"`
		ImageURL        string `json:"image_url"`
	} `json:"product"`
}

// Lookup fetches /api/v0/product/{barcode}.json. Status 1 means found.
func (o *OpenFoodFacts) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", o.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openfoodfacts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openfoodfacts error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed offResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Status != 1 || parsed.Product == nil {
		return nil, nil
	}

	p := parsed.Product
	return &ProductInfo{
		Barcode:       barcode,
		Name:          firstNonEmpty(p.ProductName, p.GenericName, "Unknown Product"),
		Brand:         firstNonEmpty(p.Brands, "Unknown Brand"),
		Category:      MapCategory(firstNonEmpty(p.Categories, CategoryFood)),
		Description:   p.IngredientsText,
		Ingredients:   p.IngredientsText,
		ImageURL:      p.ImageURL,
		ShelfLifeDays: EstimateShelfLife(firstNonEmpty(p.Categories, CategoryFood)),
		Source:        o.Name(),
	}, nil
}
