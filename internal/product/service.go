package product

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/expiry-tracker/internal/labeltext"
	"github.com/zombor/expiry-tracker/internal/lookup"
	"github.com/zombor/expiry-tracker/internal/scanning"
)

// unnamedProduct is used when neither the user nor a lookup named the product
const unnamedProduct = "Unnamed product"

// IDGenerator generates unique IDs for products
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Lookuper resolves a barcode to product details; (nil, nil) means unknown
type Lookuper interface {
	Lookup(ctx context.Context, barcode string) (*lookup.ProductInfo, error)
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles product operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	lookup      Lookuper
	idGenerator IDGenerator
	timeSource  TimeSource

	expiryWindowDays int
}

// NewService creates a new Service with UUID IDs and the wall clock
func NewService(db DB, scanner scanning.Scanner, storage Storage, lookup Lookuper) *Service {
	return NewServiceWithDeps(db, scanner, storage, lookup, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, lookup Lookuper, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:               db,
		scanner:          scanner,
		storage:          storage,
		lookup:           lookup,
		idGenerator:      idGen,
		timeSource:       timeSrc,
		expiryWindowDays: DefaultExpiryWindowDays,
	}
}

// SetExpiryWindow changes how many days ahead a product counts as
// soon-expiring
func (s *Service) SetExpiryWindow(days int) {
	if days >= 0 {
		s.expiryWindowDays = days
	}
}

var (
	filenameJunk = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone generated filenames
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = filenameJunk.ReplaceAllString(base, "")
	base = strings.TrimSpace(spaceRun.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "label"
	}
	if ext != "" {
		ext = "." + filenameJunk.ReplaceAllString(ext[1:], "")
	}
	return base + ext
}

// ScanLabel stores a label image, reads it, looks up the barcode and saves
// the resulting product. A manual barcode wins over the scanned one. A label
// the scanner cannot read still produces a product for the user to fill in.
func (s *Service) ScanLabel(ctx context.Context, filename string, data []byte, contentType, manualBarcode string) (*Product, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	result := s.scanner.Scan(data, contentType)

	barcode := strings.TrimSpace(manualBarcode)
	if barcode == "" && result.Barcode != nil {
		barcode = *result.Barcode
	}

	product := &Product{
		ID:          id,
		Name:        unnamedProduct,
		Barcode:     barcode,
		Filename:    savedPath,
		ContentType: contentType,
		Scan:        &result,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var info *lookup.ProductInfo
	if barcode != "" {
		info = s.lookupBarcode(ctx, barcode)
	}
	if info != nil {
		if info.Name != "" {
			product.Name = info.Name
		}
		product.Brand = info.Brand
		product.Category = info.Category
		product.Description = info.Description
		product.Ingredients = info.Ingredients
		product.ImageURL = info.ImageURL
		product.Source = info.Source
	}

	switch {
	case result.ExpiryDate != nil:
		product.ExpiryDate = *result.ExpiryDate
	case info != nil && info.ShelfLifeDays > 0:
		product.ExpiryDate = now.AddDate(0, 0, info.ShelfLifeDays).Format(labeltext.DateLayout)
	}

	if err := s.db.SaveProduct(product); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving product to database: %w", err)
	}

	slog.Info("Label scanned",
		"id", id,
		"barcode", barcode,
		"expiry_date", product.ExpiryDate,
		"source", product.Source,
	)

	product.annotate(now, s.expiryWindowDays)
	return product, nil
}

// ScanText runs the label text pipeline over already recognized text
func (s *Service) ScanText(text string) labeltext.ScanResult {
	return s.scanner.ScanText(text)
}

func (s *Service) lookupBarcode(ctx context.Context, barcode string) *lookup.ProductInfo {
	if s.lookup == nil {
		return nil
	}
	info, err := s.lookup.Lookup(ctx, barcode)
	if err != nil {
		slog.Warn("Barcode lookup failed", "barcode", barcode, "error", err)
		return nil
	}
	return info
}

// BarcodeLookup is a lookup result with an expiry date suggested from the
// estimated shelf life
type BarcodeLookup struct {
	*lookup.ProductInfo
	SuggestedExpiryDate string `json:"suggestedExpiryDate,omitempty"`
}

// LookupBarcode resolves a barcode without saving anything
func (s *Service) LookupBarcode(ctx context.Context, barcode string) (*BarcodeLookup, error) {
	info := s.lookupBarcode(ctx, barcode)
	if info == nil {
		return nil, fmt.Errorf("%w: barcode %s", ErrNotFound, barcode)
	}
	result := &BarcodeLookup{ProductInfo: info}
	if info.ShelfLifeDays > 0 {
		result.SuggestedExpiryDate = s.timeSource.Now().AddDate(0, 0, info.ShelfLifeDays).Format(labeltext.DateLayout)
	}
	return result, nil
}

func validateInput(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)

	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if in.ExpiryDate != "" {
		if _, err := time.Parse(labeltext.DateLayout, in.ExpiryDate); err != nil {
			return fmt.Errorf("%w: expiry date %q is not YYYY-MM-DD", ErrInvalid, in.ExpiryDate)
		}
	}
	return nil
}

// CreateProduct saves a product entered by hand
func (s *Service) CreateProduct(in Input) (*Product, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	product := &Product{
		ID:        s.idGenerator.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.apply(in)

	if err := s.db.SaveProduct(product); err != nil {
		return nil, fmt.Errorf("saving product to database: %w", err)
	}

	product.annotate(now, s.expiryWindowDays)
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *Service) GetProduct(id string) (*Product, error) {
	product, err := s.db.GetProduct(id)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	product.annotate(s.timeSource.Now(), s.expiryWindowDays)
	return product, nil
}

// ListProducts returns all products, newest first
func (s *Service) ListProducts() ([]*Product, error) {
	products, err := s.db.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	now := s.timeSource.Now()
	for _, p := range products {
		p.annotate(now, s.expiryWindowDays)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// ListExpiring returns the products that expire within days from today,
// soonest first. Products already expired are left out.
func (s *Service) ListExpiring(days int) ([]*Product, error) {
	products, err := s.ListProducts()
	if err != nil {
		return nil, err
	}

	expiring := make([]*Product, 0)
	for _, p := range products {
		if p.DaysUntilExpiry != nil && *p.DaysUntilExpiry >= 0 && *p.DaysUntilExpiry <= days {
			expiring = append(expiring, p)
		}
	}
	sort.SliceStable(expiring, func(i, j int) bool {
		return *expiring[i].DaysUntilExpiry < *expiring[j].DaysUntilExpiry
	})
	return expiring, nil
}

// UpdateProduct replaces the editable fields of a product
func (s *Service) UpdateProduct(id string, in Input) (*Product, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	product, err := s.db.GetProduct(id)
	if err != nil {
		return nil, fmt.Errorf("getting product for update: %w", err)
	}

	now := s.timeSource.Now()
	product.apply(in)
	product.UpdatedAt = now

	if err := s.db.SaveProduct(product); err != nil {
		return nil, fmt.Errorf("saving product to database: %w", err)
	}

	product.annotate(now, s.expiryWindowDays)
	return product, nil
}

// DeleteProduct removes a product and its label image
func (s *Service) DeleteProduct(id string) error {
	product, err := s.db.GetProduct(id)
	if err != nil {
		return fmt.Errorf("getting product for deletion: %w", err)
	}

	if product.Filename != "" {
		if err := s.storage.Delete(product.Filename); err != nil {
			slog.Warn("Failed to delete file", "filename", product.Filename, "error", err)
		}
	}

	if err := s.db.DeleteProduct(id); err != nil {
		return fmt.Errorf("deleting product from database: %w", err)
	}
	return nil
}

// GetProductFile retrieves the label image of a product
func (s *Service) GetProductFile(id string) ([]byte, string, error) {
	product, err := s.db.GetProduct(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting product: %w", err)
	}
	if product.Filename == "" {
		return nil, "", fmt.Errorf("%w: product %s has no label image", ErrNotFound, id)
	}

	data, err := s.storage.Get(product.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting product file: %w", err)
	}
	return data, product.ContentType, nil
}
