package scanning

import "github.com/zombor/expiry-tracker/internal/labeltext"

// Recognizer turns a label image into the raw text printed on it.
type Recognizer interface {
	// RecognizeText reads all text from an image or PDF. An empty string
	// with a nil error means the image holds no readable text.
	RecognizeText(imageData []byte, contentType string) (string, error)
	// Close closes the recognizer and releases resources
	Close() error
}

// Scanner reads a label and runs the recognized text through the label text
// pipeline. It never fails; unreadable labels give an empty result.
type Scanner interface {
	Scan(imageData []byte, contentType string) labeltext.ScanResult
	ScanText(text string) labeltext.ScanResult
	Close() error
}
