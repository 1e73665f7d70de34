package labeltext

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractBarcode", func() {
	var (
		text    string
		barcode string
		found   bool
	)

	JustBeforeEach(func() {
		barcode, found = ExtractBarcode(text)
	})

	When("the text is a contiguous EAN-13", func() {
		BeforeEach(func() {
			text = "8901450000898"
		})

		It("returns it", func() {
			Expect(found).To(BeTrue())
			Expect(barcode).To(Equal("8901450000898"))
		})
	})

	When("the digits still contain spaces", func() {
		BeforeEach(func() {
			text = "EAN 9 780201 379624 PRICE"
		})

		It("returns the digits without spaces", func() {
			Expect(found).To(BeTrue())
			Expect(barcode).To(Equal("9780201379624"))
		})
	})

	When("an EAN-8 is split in two halves", func() {
		BeforeEach(func() {
			text = "1234 5678"
		})

		It("returns the eight digits", func() {
			Expect(found).To(BeTrue())
			Expect(barcode).To(Equal("12345678"))
		})
	})

	When("the longest run is too short", func() {
		BeforeEach(func() {
			text = "LOT 1234567"
		})

		It("finds nothing", func() {
			Expect(found).To(BeFalse())
			Expect(barcode).To(BeEmpty())
		})
	})

	When("the only run is longer than a GTIN-14", func() {
		BeforeEach(func() {
			text = "123456789012345"
		})

		It("finds nothing", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("an overlong run precedes a valid one", func() {
		BeforeEach(func() {
			text = "LOT 123456789012345678 CODE 123456789"
		})

		It("skips the overlong run", func() {
			Expect(found).To(BeTrue())
			Expect(barcode).To(Equal("123456789"))
		})
	})

	When("two valid runs are present", func() {
		BeforeEach(func() {
			text = "A 111111111 B 222222222"
		})

		It("returns the first one", func() {
			Expect(barcode).To(Equal("111111111"))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("finds nothing", func() {
			Expect(found).To(BeFalse())
		})
	})
})
