package scanning

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// minOCRWidth is the width small phone crops are upscaled to. Tesseract
// loses thin dot-matrix digits below roughly this size.
const minOCRWidth = 1200

// Tesseract implements the Recognizer interface with a local Tesseract
// engine. It needs libtesseract and the language data installed:
//
//	apt-get install libtesseract-dev tesseract-ocr-eng
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract recognizer for the given language code
// ("eng" when empty).
func NewTesseract(language string) (*Tesseract, error) {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}, nil
}

// RecognizeText preprocesses the label and runs Tesseract over it. A client
// is created per call; gosseract clients are not safe for concurrent use.
func (t *Tesseract) RecognizeText(imageData []byte, contentType string) (string, error) {
	img, err := decodeLabelImage(imageData, contentType)
	if err != nil {
		return "", err
	}

	pngData, err := encodePNG(preprocessForOCR(img))
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	// Labels are scattered text, not paragraphs.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(pngData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Close is a no-op; clients are per call
func (t *Tesseract) Close() error {
	return nil
}

// preprocessForOCR converts a label photo into a high contrast grayscale image
// at a width Tesseract reads reliably.
func preprocessForOCR(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	if w := out.Bounds().Dx(); w > 0 && w < minOCRWidth {
		out = imaging.Resize(out, minOCRWidth, 0, imaging.Lanczos)
	}
	out = imaging.AdjustContrast(out, 30)
	return imaging.Sharpen(out, 1.0)
}
