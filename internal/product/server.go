package product

import (
	"crypto/subtle"
	"net/http"
)

// Server handles HTTP requests for products
type Server struct {
	service   *Service
	basicAuth BasicAuth
	mux       *http.ServeMux
	version   string
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, basicAuth BasicAuth, version string) *Server {
	return NewServerWithMux(service, basicAuth, version, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, basicAuth BasicAuth, version string, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		basicAuth: basicAuth,
		mux:       mux,
		version:   version,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.basicAuth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.basicAuth.Password)) == 1
	return userOK && passOK
}

// corsMiddleware adds CORS headers and answers preflight requests
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="Expiry Tracker"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux.
// Literal segments take precedence over {id} wildcards in ServeMux patterns.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/version", s.handleVersion)

	s.mux.HandleFunc("POST /api/products/scan", s.requireAuth(s.handleScanLabel))
	s.mux.HandleFunc("GET /api/products/expiring", s.requireAuth(s.handleListExpiring))
	s.mux.HandleFunc("GET /api/products/export.xlsx", s.requireAuth(s.handleExport))
	s.mux.HandleFunc("GET /api/products/{id}/file", s.requireAuth(s.handleGetProductFile))
	s.mux.HandleFunc("GET /api/products/{id}", s.requireAuth(s.handleGetProduct))
	s.mux.HandleFunc("PUT /api/products/{id}", s.requireAuth(s.handleUpdateProduct))
	s.mux.HandleFunc("DELETE /api/products/{id}", s.requireAuth(s.handleDeleteProduct))
	s.mux.HandleFunc("GET /api/products", s.requireAuth(s.handleListProducts))
	s.mux.HandleFunc("POST /api/products", s.requireAuth(s.handleCreateProduct))

	s.mux.HandleFunc("POST /api/text/scan", s.requireAuth(s.handleScanText))
	s.mux.HandleFunc("GET /api/barcodes/{code}", s.requireAuth(s.handleLookupBarcode))
}

// Handler returns the mux wrapped with CORS handling
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
