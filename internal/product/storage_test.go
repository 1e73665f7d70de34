package product

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = filepath.Join(GinkgoT().TempDir(), "labels")
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the base directory", func() {
		Expect(tmpDir).To(BeADirectory())
	})

	Describe("Save", func() {
		var (
			name      string
			savedPath string
			err       error
		)

		BeforeEach(func() {
			name = "id-1_label.jpg"
		})

		JustBeforeEach(func() {
			savedPath, err = storage.Save(name, []byte("label image"))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the key", func() {
				Expect(savedPath).To(Equal(name))
			})

			It("should save the file to disk", func() {
				Expect(filepath.Join(tmpDir, name)).To(BeAnExistingFile())
			})
		})

		When("the name escapes the directory", func() {
			BeforeEach(func() {
				name = "../outside.jpg"
			})

			It("refuses it", func() {
				Expect(err).To(MatchError(ContainSubstring("invalid storage key")))
				Expect(filepath.Join(filepath.Dir(tmpDir), "outside.jpg")).NotTo(BeAnExistingFile())
			})
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			It("returns its contents", func() {
				_, err := storage.Save("a.png", []byte("png data"))
				Expect(err).NotTo(HaveOccurred())

				data, err := storage.Get("a.png")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("png data"))
			})
		})

		When("the file does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := storage.Get("missing.png")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("Delete", func() {
		It("removes the file", func() {
			_, err := storage.Save("a.png", []byte("png data"))
			Expect(err).NotTo(HaveOccurred())

			Expect(storage.Delete("a.png")).To(Succeed())
			_, statErr := os.Stat(filepath.Join(tmpDir, "a.png"))
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})

		It("returns an error for a missing file", func() {
			Expect(storage.Delete("missing.png")).To(HaveOccurred())
		})
	})
})
