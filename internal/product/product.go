package product

import (
	"errors"
	"time"

	"github.com/zombor/expiry-tracker/internal/labeltext"
)

// ErrNotFound is returned when no product has the requested ID
var ErrNotFound = errors.New("product not found")

// ErrInvalid wraps input the service refuses to store
var ErrInvalid = errors.New("invalid product")

// DefaultExpiryWindowDays is how close to its expiry date a product is
// reported as soon-expiring
const DefaultExpiryWindowDays = 7

// Status is derived from the expiry date at read time
type Status string

const (
	StatusActive       Status = "active"
	StatusSoonExpiring Status = "soon-expiring"
	StatusExpired      Status = "expired"
	StatusUnknown      Status = "unknown" // no expiry date
)

// Product is a tracked item with an expiry date
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"` // YYYY-MM-DD
	Ingredients string `json:"ingredients,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Source      string `json:"source,omitempty"` // where the details came from

	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`

	// Scan is what the label text pipeline read from the uploaded image
	Scan *labeltext.ScanResult `json:"scan,omitempty"`

	// Recomputed on every read, stored values are ignored
	Status          Status `json:"status"`
	DaysUntilExpiry *int   `json:"daysUntilExpiry,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input holds the user editable fields of a Product
type Input struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
	Ingredients string `json:"ingredients,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// DaysUntil returns the whole calendar days from now until expiryDate, and
// false when expiryDate is empty or not a YYYY-MM-DD date. Today is 0.
func DaysUntil(expiryDate string, now time.Time) (int, bool) {
	if expiryDate == "" {
		return 0, false
	}
	expiry, err := time.Parse(labeltext.DateLayout, expiryDate)
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24), true
}

// StatusFor classifies a day count against the soon-expiring window
func StatusFor(days, windowDays int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= windowDays:
		return StatusSoonExpiring
	default:
		return StatusActive
	}
}

// annotate fills the derived fields
func (p *Product) annotate(now time.Time, windowDays int) {
	days, ok := DaysUntil(p.ExpiryDate, now)
	if !ok {
		p.Status = StatusUnknown
		p.DaysUntilExpiry = nil
		return
	}
	p.Status = StatusFor(days, windowDays)
	p.DaysUntilExpiry = &days
}

func (p *Product) apply(in Input) {
	p.Name = in.Name
	p.Category = in.Category
	p.Brand = in.Brand
	p.Barcode = in.Barcode
	p.ExpiryDate = in.ExpiryDate
	p.Ingredients = in.Ingredients
	p.Description = in.Description
	p.ImageURL = in.ImageURL
}
