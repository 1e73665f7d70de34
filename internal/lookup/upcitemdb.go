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

// UPCItemDB looks barcodes up in the UPCitemdb trial API. The trial tier is
// rate limited per IP and answers 429 when exhausted.
type UPCItemDB struct {
	baseURL string
	client  *http.Client
}

// NewUPCItemDB creates a UPCitemdb source. baseURL defaults to the public API.
func NewUPCItemDB(baseURL string) *UPCItemDB {
	if baseURL == "" {
		baseURL = "https://api.upcitemdb.com"
	}
	return &UPCItemDB{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (u *UPCItemDB) Name() string { return "UPC Database" }

type upcItemDBResponse struct {
	Code  string `json:"code"`
	Items []struct {
		Title       string   `json:"title"`
		Brand       string   `json:"brand"`
		Category    string   `json:"category"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
	} `json:"items"`
}

// Lookup fetches /prod/trial/lookup?upc={barcode}
func (u *UPCItemDB) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	endpoint := u.baseURL + "/prod/trial/lookup?" + url.Values{"upc": {barcode}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upcitemdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("upcitemdb error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed upcItemDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Code != "OK" || len(parsed.Items) == 0 {
		return nil, nil
	}

	item := parsed.Items[0]
	info := &ProductInfo{
		Barcode:       barcode,
		Name:          firstNonEmpty(item.Title, "Unknown Product"),
		Brand:         firstNonEmpty(item.Brand, "Unknown Brand"),
		Category:      MapCategory(item.Category),
		Description:   item.Description,
		ShelfLifeDays: EstimateShelfLife(item.Category),
		Source:        u.Name(),
	}
	if len(item.Images) > 0 {
		info.ImageURL = item.Images[0]
	}
	return info, nil
}
