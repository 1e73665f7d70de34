package labeltext

import "regexp"

const (
	// MinBarcodeLength is the EAN-8 length.
	MinBarcodeLength = 8
	// MaxBarcodeLength is the GTIN-14 length.
	MaxBarcodeLength = 14
)

var barcodeCandidate = regexp.MustCompile(`\d[\d\s]{7,20}\d`)

// ExtractBarcode returns the first numeric run in text that holds between
// MinBarcodeLength and MaxBarcodeLength digits once inner spaces are removed.
func ExtractBarcode(text string) (string, bool) {
	for _, candidate := range barcodeCandidate.FindAllString(text, -1) {
		digits := whitespaceRun.ReplaceAllString(candidate, "")
		if len(digits) >= MinBarcodeLength && len(digits) <= MaxBarcodeLength {
			return digits, true
		}
	}
	return "", false
}
