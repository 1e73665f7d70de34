package scanning

import (
	"log/slog"
	"strings"

	"github.com/zombor/expiry-tracker/internal/labeltext"
)

// LabelScanner runs a Recognizer and feeds its text through the label text
// pipeline.
type LabelScanner struct {
	recognizer Recognizer
}

// NewLabelScanner creates a LabelScanner around recognizer
func NewLabelScanner(recognizer Recognizer) *LabelScanner {
	return &LabelScanner{recognizer: recognizer}
}

// Scan reads a label image. A recognizer failure is logged and treated like
// a label without text, so the result is never an error.
func (s *LabelScanner) Scan(imageData []byte, contentType string) labeltext.ScanResult {
	text, err := s.recognizer.RecognizeText(imageData, contentType)
	if err != nil {
		slog.Warn("Text recognition failed",
			"content_type", contentType,
			"file_size", len(imageData),
			"error", err,
		)
		return labeltext.Scan(nil)
	}
	if strings.TrimSpace(text) == "" {
		slog.Info("No text recognized on label", "content_type", contentType)
		return labeltext.Scan(nil)
	}

	result := labeltext.Scan(&text)
	if result.Empty() {
		slog.Info("No barcode or expiry date found on label",
			"content_type", contentType,
			"text", deref(result.Text),
		)
	}
	slog.Debug("Label scanned",
		"raw", text,
		"corrected", deref(result.CorrectedText),
		"cleaned", deref(result.Text),
		"barcode", deref(result.Barcode),
		"expiry", deref(result.ExpiryDate),
	)
	return result
}

// ScanText runs the pipeline over text that was recognized elsewhere
func (s *LabelScanner) ScanText(text string) labeltext.ScanResult {
	return labeltext.ScanText(text)
}

// Close closes the underlying recognizer
func (s *LabelScanner) Close() error {
	return s.recognizer.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
