package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	mimePDF = "application/pdf"
	mimePNG = "image/png"
)

// transcribePrompt is shared by the LLM backed recognizers.
const transcribePrompt = `You are reading the label of a retail product. Transcribe every piece of printed text you can see, exactly as printed, one line per printed line.

Pay special attention to:
1. **Barcode digits**: the numbers printed under the barcode (8 to 14 digits).
2. **Dates**: expiry, best before, use by, manufacture and packed dates, in whatever format they are printed.

Important:
- Do not correct, translate, reformat or explain anything
- Do not add any text that is not printed on the label
- Do not use markdown code blocks
- If there is no readable text, reply with exactly NO_TEXT`

// noTextReply is what the LLM recognizers are told to answer for a blank label.
const noTextReply = "NO_TEXT"

// normalizeMimeType lowercases and trims a content type, defaulting to JPEG
// the way phone uploads usually arrive.
func normalizeMimeType(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		return "image/jpeg"
	}
	return mimeType
}

// decodeLabelImage decodes a label upload. PDFs are rendered from their first
// page, HEIC/HEIF photos go through the pure Go decoder and everything else
// through the standard image decoders.
func decodeLabelImage(imageData []byte, contentType string) (image.Image, error) {
	mimeType := normalizeMimeType(contentType)

	if mimeType == mimePDF {
		doc, err := fitz.NewFromMemory(imageData)
		if err != nil {
			return nil, fmt.Errorf("opening PDF: %w", err)
		}
		defer doc.Close()

		img, err := doc.Image(0)
		if err != nil {
			return nil, fmt.Errorf("rendering PDF page: %w", err)
		}
		return img, nil
	}

	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err := heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// preparePNG returns the upload as PNG bytes, converting when needed.
func preparePNG(imageData []byte, contentType string) ([]byte, error) {
	mimeType := normalizeMimeType(contentType)
	if mimeType == mimePNG && !isHEICFormat(imageData) {
		return imageData, nil
	}

	img, err := decodeLabelImage(imageData, mimeType)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICFormat checks for an ftyp box with a HEIC family brand at offset 4
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// stripCodeFence removes a markdown code block some models wrap replies in
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// cleanTranscript turns an LLM reply into recognized text, mapping the
// NO_TEXT answer to an empty string.
func cleanTranscript(reply string) string {
	text := stripCodeFence(reply)
	if strings.EqualFold(text, noTextReply) {
		return ""
	}
	return text
}
