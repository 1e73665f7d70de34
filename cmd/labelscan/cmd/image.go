package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zombor/expiry-tracker/internal/scanning"
)

type imageOptions struct {
	recognizer  string
	language    string
	ocrSpaceKey string
	geminiKey   string
	geminiModel string
	ollamaURL   string
	ollamaModel string
}

func newImageCommand(opts *rootOptions) *cobra.Command {
	img := &imageOptions{}

	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Recognize a label image and run the pipeline",
		Example: `  labelscan image label.jpg
  labelscan image --recognizer ocrspace label.heic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			recognizer, err := img.newRecognizer()
			if err != nil {
				return err
			}
			scanner := scanning.NewLabelScanner(recognizer)
			defer scanner.Close()

			return opts.printJSON(cmd.OutOrStdout(), scanner.Scan(data, detectContentType(args[0], data)))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&img.recognizer, "recognizer", "r", "tesseract", "Text recognizer: tesseract, ocrspace, gemini or ollama")
	f.StringVar(&img.language, "lang", "eng", "Tesseract language code")
	f.StringVar(&img.ocrSpaceKey, "ocrspace-key", os.Getenv("OCRSPACE_API_KEY"), "OCR.space API key")
	f.StringVar(&img.geminiKey, "gemini-key", os.Getenv("GEMINI_API_KEY"), "Google Gemini API key")
	f.StringVar(&img.geminiModel, "gemini-model", "gemini-2.5-flash", "Google Gemini model name")
	f.StringVar(&img.ollamaURL, "ollama-url", "http://localhost:11434", "Ollama API base URL")
	f.StringVar(&img.ollamaModel, "ollama-model", "llava", "Ollama vision model name")
	return cmd
}

func (o *imageOptions) newRecognizer() (scanning.Recognizer, error) {
	switch o.recognizer {
	case "tesseract":
		return scanning.NewTesseract(o.language)
	case "ocrspace":
		return scanning.NewOCRSpace(o.ocrSpaceKey, "")
	case "gemini":
		if o.geminiKey == "" {
			return nil, fmt.Errorf("gemini needs --gemini-key or GEMINI_API_KEY")
		}
		return scanning.NewGemini(o.geminiKey, o.geminiModel)
	case "ollama":
		return scanning.NewOllama(o.ollamaURL, o.ollamaModel)
	default:
		return nil, fmt.Errorf("unknown recognizer %q (want tesseract, ocrspace, gemini or ollama)", o.recognizer)
	}
}

// detectContentType prefers the file extension, since sniffing does not
// know HEIC
func detectContentType(name string, data []byte) string {
	switch ext := filepath.Ext(name); ext {
	case ".heic", ".HEIC":
		return "image/heic"
	case ".heif", ".HEIF":
		return "image/heif"
	case "":
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	return http.DetectContentType(data)
}
