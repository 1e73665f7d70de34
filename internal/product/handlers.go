package product

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zombor/expiry-tracker/internal/labeltext"
)

const (
	// maxUploadSize allows high resolution phone photos
	maxUploadSize = int64(50 << 20)
	maxJSONSize   = int64(1 << 20)
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	setCORSHeaders(w)
	writeJSON(w, code, map[string]string{"error": message})
}

// writeServiceError maps service errors onto status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// contentTypeFor guesses a MIME type from the file extension when the
// client did not send one
func contentTypeFor(filename, declared string) string {
	if ct := strings.ToLower(strings.TrimSpace(declared)); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleScanLabel takes a multipart "file" and an optional "barcode" field
func (s *Server) handleScanLabel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum size is 50MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeError(w, http.StatusBadRequest, "No file was selected. Please choose a label image to upload.")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := contentTypeFor(header.Filename, header.Header.Get("Content-Type"))
	product, err := s.service.ScanLabel(r.Context(), header.Filename, data, contentType, r.FormValue("barcode"))
	if err != nil {
		slog.Error("Error scanning label", "filename", header.Filename, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// handleScanText runs the label text pipeline over posted text
func (s *Server) handleScanText(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeValidated(textScanValidator, body, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.service.ScanText(req.Text))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.service.ListProducts()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if status := Status(r.URL.Query().Get("status")); status != "" {
		filtered := make([]*Product, 0, len(products))
		for _, p := range products {
			if p.Status == status {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleListExpiring(w http.ResponseWriter, r *http.Request) {
	days := DefaultExpiryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	products, err := s.service.ListExpiring(days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if err := decodeValidated(inputValidator, body, &in); err != nil {
		writeServiceError(w, err)
		return in, false
	}
	return in, true
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readInput(w, r)
	if !ok {
		return
	}

	product, err := s.service.CreateProduct(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.service.GetProduct(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readInput(w, r)
	if !ok {
		return
	}

	product, err := s.service.UpdateProduct(r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteProduct(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProductFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetProductFile(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportXLSX()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	w.Write(data)
}

func (s *Server) handleLookupBarcode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if !isBarcode(code) {
		writeError(w, http.StatusBadRequest, "barcode must be 8 to 14 digits")
		return
	}

	result, err := s.service.LookupBarcode(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func isBarcode(code string) bool {
	if len(code) < labeltext.MinBarcodeLength || len(code) > labeltext.MaxBarcodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
