package product_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/expiry-tracker/internal/lookup"
	"github.com/zombor/expiry-tracker/internal/product"
	"github.com/zombor/expiry-tracker/internal/scanning"
)

// fakeRecognizer returns a canned transcript for every image
type fakeRecognizer struct {
	text string
}

func (f *fakeRecognizer) RecognizeText(imageData []byte, contentType string) (string, error) {
	return f.text, nil
}

func (f *fakeRecognizer) Close() error {
	return nil
}

var _ = Describe("Integration", func() {
	var (
		tempDir     string
		db          *product.BoltDB
		store       *product.LocalStorage
		recognizer  *fakeRecognizer
		offServer   *ghttp.Server
		apiServer   *ghttp.Server
		storagePath string
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		storagePath = filepath.Join(tempDir, "labels")

		var err error
		db, err = product.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
		store, err = product.NewLocalStorage(storagePath)
		Expect(err).NotTo(HaveOccurred())

		// Open Food Facts stand-in
		offServer = ghttp.NewServer()
		offServer.AllowUnhandledRequests = true
		offServer.UnhandledRequestStatusCode = http.StatusNotFound
		offServer.RouteToHandler(http.MethodGet, "/api/v0/product/3017620422003.json",
			ghttp.RespondWith(http.StatusOK, `{"status":1,"product":{"product_name":"Nutella","brands":"Ferrero","categories":"Spreads"}}`))

		recognizer = &fakeRecognizer{text: "Nutella 400g\n3017620422003\nBest Before: 12/2026"}
		chain := lookup.NewChain(
			lookup.NewKnown(nil),
			lookup.NewOpenFoodFacts(offServer.URL()),
			lookup.Guess{},
		)
		service := product.NewService(db, scanning.NewLabelScanner(recognizer), store, chain)
		server := product.NewServer(service, product.BasicAuth{}, "test")

		apiServer = ghttp.NewServer()
		anyPath := regexp.MustCompile(`^/`)
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			apiServer.RouteToHandler(method, anyPath, server.Handler().ServeHTTP)
		}
	})

	AfterEach(func() {
		apiServer.Close()
		offServer.Close()
		db.Close()
	})

	do := func(method, path string, body io.Reader, contentType string) *http.Response {
		req, err := http.NewRequest(method, apiServer.URL()+path, body)
		Expect(err).NotTo(HaveOccurred())
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	readProduct := func(resp *http.Response) product.Product {
		defer resp.Body.Close()
		var p product.Product
		Expect(json.NewDecoder(resp.Body).Decode(&p)).To(Succeed())
		return p
	}

	It("scans a label, edits the product and deletes it", func() {
		// --- Step 1: scan ---
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "IMG 2025 (1).jpg")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("fake jpeg content"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp := do(http.MethodPost, "/api/products/scan", body, writer.FormDataContentType())
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		scanned := readProduct(resp)

		Expect(scanned.Name).To(Equal("Nutella"))
		Expect(scanned.Brand).To(Equal("Ferrero"))
		Expect(scanned.Source).To(Equal("OpenFoodFacts"))
		Expect(scanned.Barcode).To(Equal("3017620422003"))
		Expect(scanned.ExpiryDate).To(Equal("2026-12-01"))
		Expect(*scanned.Scan.RawText).To(Equal(recognizer.text))

		// The image is on disk and the product is in the database
		Expect(filepath.Join(storagePath, scanned.Filename)).To(BeAnExistingFile())
		_, err = db.GetProduct(scanned.ID)
		Expect(err).NotTo(HaveOccurred())

		// --- Step 2: read back ---
		resp = do(http.MethodGet, "/api/products/"+scanned.ID+"/file", nil, "")
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("fake jpeg content"))
		Expect(resp.Header.Get("Content-Type")).To(Equal("image/jpeg"))

		// --- Step 3: correct the name ---
		update := `{"name":"Nutella Hazelnut Spread","brand":"Ferrero","barcode":"3017620422003","expiryDate":"2026-12-01"}`
		resp = do(http.MethodPut, "/api/products/"+scanned.ID, bytes.NewBufferString(update), "application/json")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		updated := readProduct(resp)
		Expect(updated.Name).To(Equal("Nutella Hazelnut Spread"))
		Expect(updated.Filename).To(Equal(scanned.Filename))

		stored, err := db.GetProduct(scanned.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Name).To(Equal("Nutella Hazelnut Spread"))

		// --- Step 4: delete ---
		resp = do(http.MethodDelete, "/api/products/"+scanned.ID, nil, "")
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

		_, err = db.GetProduct(scanned.ID)
		Expect(err).To(MatchError(product.ErrNotFound))
		_, err = os.Stat(filepath.Join(storagePath, scanned.Filename))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("falls back to the barcode prefix when no database knows the product", func() {
		recognizer.text = "8904000123457"

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "label.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp := do(http.MethodPost, "/api/products/scan", body, writer.FormDataContentType())
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		p := readProduct(resp)

		Expect(p.Source).To(Equal("Barcode Prefix"))
		Expect(p.Name).To(Equal("Product 3457"))
		Expect(p.Category).To(Equal(lookup.CategoryCosmetic))
		Expect(p.ExpiryDate).NotTo(BeEmpty())
		Expect(p.Status).To(Equal(product.StatusActive))
	})
})
