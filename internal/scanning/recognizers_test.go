package scanning

import (
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server     *ghttp.Server
		recognizer *Ollama
		text       string
		err        error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		recognizer, err = NewOllama(server.URL()+"/", "qwen2-vl")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		text, err = recognizer.RecognizeText(testPNG(4, 4), "image/png")
	})

	When("the model answers with a transcript", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyHeaderKV("Content-Type", "application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					body, readErr := io.ReadAll(r.Body)
					Expect(readErr).NotTo(HaveOccurred())
					var req ollamaChatRequest
					Expect(json.Unmarshal(body, &req)).To(Succeed())
					Expect(req.Model).To(Equal("qwen2-vl"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Images).To(HaveLen(1))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: "```\nEXP 30 NOV 25\n```"},
					Done:    true,
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the transcript without code fences", func() {
			Expect(text).To(Equal("EXP 30 NOV 25"))
		})
	})

	When("the model sees no text", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Message: ollamaMessage{Role: "assistant", Content: "NO_TEXT"},
			}))
		})

		It("returns an empty transcript", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	When("the API fails", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("status 500"))
			Expect(err.Error()).To(ContainSubstring("model not loaded"))
		})
	})
})

var _ = Describe("OCRSpace", func() {
	var (
		server     *ghttp.Server
		recognizer *OCRSpace
		text       string
		err        error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		recognizer, err = NewOCRSpace("", server.URL()+"/parse/image")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		text, err = recognizer.RecognizeText(testPNG(4, 4), "image/png")
	})

	When("the label is parsed", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/parse/image"),
				func(w http.ResponseWriter, r *http.Request) {
					Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
					Expect(r.FormValue("apikey")).To(Equal("helloworld"))
					Expect(r.FormValue("language")).To(Equal("eng"))
					Expect(r.FormValue("base64Image")).To(HavePrefix("data:image/png;base64,"))
				},
				ghttp.RespondWith(http.StatusOK, `{"ParsedResults":[{"ParsedText":"BB 12/2026\r\n"}],"OCRExitCode":1,"IsErroredOnProcessing":false}`),
			))
		})

		It("returns the parsed text", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("BB 12/2026\r\n"))
		})
	})

	When("nothing was parsed", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"ParsedResults":[],"OCRExitCode":1}`))
		})

		It("returns an empty transcript", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	When("processing errored", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"OCRExitCode":99,"IsErroredOnProcessing":true,"ErrorMessage":["Unable to recognize the file type","E216"]}`))
		})

		It("returns the error with the API message", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Unable to recognize the file type; E216"))
		})
	})

	When("the error message is a single string", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"OCRExitCode":3,"IsErroredOnProcessing":true,"ErrorMessage":"Timed out"}`))
		})

		It("returns the error with the API message", func() {
			Expect(err).To(MatchError(ContainSubstring("Timed out")))
		})
	})
})
