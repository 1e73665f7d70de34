package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/expiry-tracker/internal/lookup"
	"github.com/zombor/expiry-tracker/internal/product"
	"github.com/zombor/expiry-tracker/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("expiry-tracker")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "expiry-tracker.db", "Database file path")
		storagePath    = fs.StringLong("storage", "./labels", "Label image directory")
		recognizerType = fs.StringLong("recognizer", "tesseract", "Text recognizer: 'tesseract', 'ocrspace', 'gemini' or 'ollama'")
		tessLang       = fs.StringLong("tesseract-lang", "eng", "Tesseract language code")
		ocrSpaceKey    = fs.StringLong("ocrspace-key", "", "OCR.space API key (the rate limited public key is used when empty)")
		ocrSpaceURL    = fs.StringLong("ocrspace-url", "https://api.ocr.space/parse/image", "OCR.space parse endpoint")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama vision model name (e.g., llava, qwen2-vl, minicpm-v)")
		offline        = fs.BoolLong("offline", "Skip the online barcode databases")
		lookupTTL      = fs.DurationLong("lookup-cache-ttl", 24*time.Hour, "How long online barcode lookups are cached")
		expiryWindow   = fs.IntLong("expiry-window", product.DefaultExpiryWindowDays, "Days before expiry a product counts as soon-expiring")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		debug          = fs.BoolLong("debug", "Log every pipeline stage")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPIRY_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	slog.Info("Initializing database...")
	db, err := product.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var recognizer scanning.Recognizer
	switch *recognizerType {
	case "tesseract":
		slog.Info("Initializing Tesseract recognizer...", "language", *tessLang)
		recognizer, err = scanning.NewTesseract(*tessLang)
	case "ocrspace":
		slog.Info("Initializing OCR.space recognizer...", "url", *ocrSpaceURL)
		recognizer, err = scanning.NewOCRSpace(*ocrSpaceKey, *ocrSpaceURL)
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini recognizer...", "model", *geminiModel)
		recognizer, err = scanning.NewGemini(apiKey, *geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", *ollamaURL, "model", *ollamaModel)
		recognizer, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
	default:
		slog.Error("Invalid recognizer type", "type", *recognizerType, "valid", "tesseract, ocrspace, gemini or ollama")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to initialize recognizer", "type", *recognizerType, "error", err)
		os.Exit(1)
	}
	scanner := scanning.NewLabelScanner(recognizer)
	defer scanner.Close()

	slog.Info("Initializing storage...")
	store, err := product.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	sources := []lookup.Source{lookup.NewKnown(nil)}
	if !*offline {
		sources = append(sources,
			lookup.NewCache(lookup.NewOpenFoodFacts(""), *lookupTTL),
			lookup.NewCache(lookup.NewUPCItemDB(""), *lookupTTL),
		)
	}
	sources = append(sources, lookup.Guess{})

	productService := product.NewService(db, scanner, store, lookup.NewChain(sources...))
	productService.SetExpiryWindow(*expiryWindow)

	basicAuth := product.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := product.NewServer(productService, basicAuth, version)

	addr := fmt.Sprintf(":%d", *port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "address", addr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
