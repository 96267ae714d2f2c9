package product_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/shopgpt/pkg/product"
)

var _ = Describe("Normalize", func() {
	normalize := func(payload string) (product.Product, bool) {
		return product.Normalize(json.RawMessage(payload))
	}

	Context("when identity fields are present", func() {
		It("keeps asin and title", func() {
			p, ok := normalize(`{"asin":"X1","title":"Shoe A"}`)

			Expect(ok).To(BeTrue())
			Expect(p.ASIN).To(Equal("X1"))
			Expect(p.Title).To(Equal("Shoe A"))
		})

		It("leaves every optional field absent when not supplied", func() {
			p, ok := normalize(`{"asin":"X1","title":"Shoe A"}`)

			Expect(ok).To(BeTrue())
			Expect(p.Brand).To(BeNil())
			Expect(p.Price).To(BeNil())
			Expect(p.Rating).To(BeNil())
			Expect(p.RatingCount).To(BeNil())
			Expect(p.Availability).To(BeNil())
			Expect(p.Description).To(BeNil())
			Expect(p.Info).To(BeNil())
			_, hasImage := p.DisplayImageURL()
			Expect(hasImage).To(BeFalse())
			_, hasPrice := p.DisplayPrice()
			Expect(hasPrice).To(BeFalse())
		})

		It("passes optional strings through", func() {
			p, ok := normalize(`{
				"asin":"X1","title":"Shoe A","brand":"Acme",
				"availability":"In Stock","product_description":"Light","info":"Mesh upper",
				"return_policy":"30 days"
			}`)

			Expect(ok).To(BeTrue())
			Expect(*p.Brand).To(Equal("Acme"))
			Expect(*p.Availability).To(Equal("In Stock"))
			Expect(*p.Description).To(Equal("Light"))
			Expect(*p.Info).To(Equal("Mesh upper"))
			Expect(*p.ReturnPolicy).To(Equal("30 days"))
		})

		It("treats null optional fields as absent", func() {
			p, ok := normalize(`{"asin":"X1","title":"Shoe A","brand":null,"price":null,"rating":null,"images":null}`)

			Expect(ok).To(BeTrue())
			Expect(p.Brand).To(BeNil())
			Expect(p.Price).To(BeNil())
			Expect(p.Rating).To(BeNil())
			Expect(p.ImageURL).To(BeEmpty())
		})

		It("drops optional fields of the wrong type without rejecting the record", func() {
			p, ok := normalize(`{"asin":"X1","title":"Shoe A","brand":42,"rating":{"x":1},"availability":["a"],"info":true}`)

			Expect(ok).To(BeTrue())
			Expect(p.Brand).To(BeNil())
			Expect(p.Rating).To(BeNil())
			Expect(p.Availability).To(BeNil())
			Expect(p.Info).To(BeNil())
		})

		It("coerces numeric ratings and rating counts", func() {
			p, ok := normalize(`{"asin":"X1","title":"Shoe A","rating":"4.5 out of 5 stars","rating_count":1234}`)

			Expect(ok).To(BeTrue())
			Expect(*p.Rating).To(BeNumerically("==", 4.5))
			Expect(*p.RatingCount).To(Equal("1234"))
		})

		It("reads numeric ratings", func() {
			p, ok := normalize(`{"asin":"X1","title":"Shoe A","rating":4.2}`)

			Expect(ok).To(BeTrue())
			Expect(*p.Rating).To(BeNumerically("~", 4.2, 0.0001))
		})
	})

	Context("when identity fields are missing", func() {
		It("rejects a payload without title", func() {
			_, ok := normalize(`{"asin":"X1","price":"9.99"}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects a payload without asin", func() {
			_, ok := normalize(`{"title":"Shoe A"}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects non-string identity fields", func() {
			_, ok := normalize(`{"asin":123,"title":"Shoe A"}`)
			Expect(ok).To(BeFalse())

			_, ok = normalize(`{"asin":"X1","title":["Shoe A"]}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects blank identity fields", func() {
			_, ok := normalize(`{"asin":"  ","title":"Shoe A"}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects payloads that are not objects", func() {
			for _, payload := range []string{`"X1"`, `[1,2]`, `null`, `12`, `{`} {
				_, ok := normalize(payload)
				Expect(ok).To(BeFalse(), payload)
			}
		})

		It("reports the reason as ErrMalformed", func() {
			_, err := product.Validate(json.RawMessage(`{"asin":"X1"}`))
			Expect(errors.Is(err, product.ErrMalformed)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("title"))
		})
	})

	Describe("price", func() {
		It("prefixes the currency glyph", func() {
			p, _ := normalize(`{"asin":"X1","title":"Shoe A","price":"19.99"}`)

			price, ok := p.DisplayPrice()
			Expect(ok).To(BeTrue())
			Expect(price).To(Equal("$19.99"))
		})

		It("keeps a price that already carries the glyph", func() {
			p, _ := normalize(`{"asin":"X1","title":"Shoe A","price":"$19.99"}`)

			price, _ := p.DisplayPrice()
			Expect(price).To(Equal("$19.99"))
		})

		It("coerces numeric prices", func() {
			p, _ := normalize(`{"asin":"X1","title":"Shoe A","price":89.99}`)

			price, _ := p.DisplayPrice()
			Expect(price).To(Equal("$89.99"))
		})
	})

	Describe("NormalizeAll", func() {
		It("keeps valid products in order and counts rejects", func() {
			raws := []json.RawMessage{
				json.RawMessage(`{"asin":"A","title":"First"}`),
				json.RawMessage(`{"asin":"B"}`),
				json.RawMessage(`{"asin":"C","title":"Third"}`),
			}

			products, dropped := product.NormalizeAll(raws)

			Expect(dropped).To(Equal(1))
			Expect(products).To(HaveLen(2))
			Expect(products[0].ASIN).To(Equal("A"))
			Expect(products[1].ASIN).To(Equal("C"))
		})

		It("returns an empty list for no payloads", func() {
			products, dropped := product.NormalizeAll(nil)

			Expect(products).To(BeEmpty())
			Expect(dropped).To(BeZero())
		})
	})
})
