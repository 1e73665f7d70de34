package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// OCRSpace implements the Recognizer interface using the OCR.space parse API
type OCRSpace struct {
	apiKey   string
	endpoint string
	language string
	client   *http.Client
}

// NewOCRSpace creates a new OCR.space Recognizer. The public "helloworld" key
// is used when apiKey is empty; it is rate limited.
func NewOCRSpace(apiKey, endpoint string) (*OCRSpace, error) {
	if apiKey == "" {
		apiKey = "helloworld"
	}
	if endpoint == "" {
		endpoint = "https://api.ocr.space/parse/image"
	}
	return &OCRSpace{
		apiKey:   apiKey,
		endpoint: endpoint,
		language: "eng",
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"` // string or []string
}

// RecognizeText uploads the label as a base64 data URI and returns the text
// of the first parsed result
func (o *OCRSpace) RecognizeText(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pngData, err := preparePNG(imageData, contentType)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := [][2]string{
		{"apikey", o.apiKey},
		{"language", o.language},
		{"isOverlayRequired", "false"},
		{"detectOrientation", "true"},
		{"scale", "true"},
		{"base64Image", "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return "", fmt.Errorf("writing form field %s: %w", field[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ocr.space API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocr.space API error (status %d): %s", resp.StatusCode, string(b))
	}

	var parsed ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr.space processing error (exit code %d): %s", parsed.OCRExitCode, errorMessageText(parsed.ErrorMessage))
	}
	if len(parsed.ParsedResults) == 0 {
		return "", nil
	}
	return parsed.ParsedResults[0].ParsedText, nil
}

// Close is a no-op for the HTTP client
func (o *OCRSpace) Close() error {
	return nil
}

func errorMessageText(raw json.RawMessage) string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return string(raw)
}
