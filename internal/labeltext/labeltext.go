// Package labeltext recovers a barcode and an expiry date from the noisy text
// a recognizer reads off a product label.
//
// The pipeline runs in a fixed order:
//
//	raw -> CorrectExpiryTokens -> Normalize -> ExtractBarcode
//	                                        -> ExtractExpiryDate -> ParseDate
//
// Every stage is a pure function over strings. Nothing is cached between
// calls, so the functions are safe to call from any number of goroutines.
// No stage returns an error: a stage that finds nothing reports ok == false
// and the matching ScanResult field stays nil.
package labeltext

// ScanResult is the outcome of running the pipeline over one label.
type ScanResult struct {
	// RawText is the recognizer output as received.
	RawText *string `json:"rawText"`
	// CorrectedText is RawText after date-token repair, before normalization.
	CorrectedText *string `json:"correctedText"`
	// Text is the fully cleaned text the extractors ran against.
	Text       *string `json:"text"`
	Barcode    *string `json:"barcode"`
	ExpiryDate *string `json:"expiryDate"` // YYYY-MM-DD
}

// Empty reports whether the scan found neither a barcode nor an expiry date.
func (r ScanResult) Empty() bool {
	return r.Barcode == nil && r.ExpiryDate == nil
}

// Scan runs the whole pipeline over raw. A nil or empty raw yields a result
// with every field nil and no stage is run.
func Scan(raw *string) ScanResult {
	if raw == nil || *raw == "" {
		return ScanResult{}
	}

	rawText := *raw
	corrected := CorrectExpiryTokens(rawText)
	cleaned := Normalize(corrected)

	result := ScanResult{
		RawText:       &rawText,
		CorrectedText: &corrected,
		Text:          &cleaned,
	}
	if barcode, ok := ExtractBarcode(cleaned); ok {
		result.Barcode = &barcode
	}
	if expiry, ok := ExtractExpiryDate(cleaned); ok {
		result.ExpiryDate = &expiry
	}
	return result
}

// ScanText is Scan for callers holding a plain string; "" means no text.
func ScanText(raw string) ScanResult {
	return Scan(&raw)
}
