package product

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Products"

var exportHeaders = []string{
	"Name",
	"Brand",
	"Category",
	"Barcode",
	"Expiry Date",
	"Days Left",
	"Status",
	"Added",
}

// ExportXLSX returns a workbook listing every product, soonest expiry first.
// Products without an expiry date go last.
func (s *Service) ExportXLSX() ([]byte, error) {
	start := time.Now()

	products, err := s.ListProducts()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i].DaysUntilExpiry, products[j].DaysUntilExpiry
		if a == nil || b == nil {
			return a != nil
		}
		return *a < *b
	})

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than leaving an empty Sheet1 behind
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, p := range products {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}

		write(1, p.Name)
		write(2, p.Brand)
		write(3, p.Category)
		write(4, p.Barcode)
		write(5, p.ExpiryDate)
		if p.DaysUntilExpiry != nil {
			write(6, *p.DaysUntilExpiry)
		}
		write(7, string(p.Status))
		write(8, p.CreatedAt.Format("2006-01-02"))
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 36)
	_ = f.SetColWidth(exportSheet, "B", "C", 18)
	_ = f.SetColWidth(exportSheet, "D", "D", 16)
	_ = f.SetColWidth(exportSheet, "E", "H", 14)
	_ = f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("Exported products", "rows", len(products), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
