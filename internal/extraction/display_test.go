package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var _ = Describe("Result.View", func() {
	var (
		result *Result
		view   ResultView
	)

	JustBeforeEach(func() {
		view = result.View()
	})

	When("every field is present", func() {
		BeforeEach(func() {
			result = &Result{
				Merchant: strPtr("Coffee House"),
				Date:     strPtr("2024-01-15"),
				Total:    decPtr("24.5"),
				Items: []ResultItem{
					{Name: strPtr("Latte"), Quantity: intPtr(2), Price: decPtr("4.5")},
				},
			}
		})

		It("should bind the merchant", func() {
			Expect(view.Merchant).To(Equal("Coffee House"))
		})

		It("should bind the date", func() {
			Expect(view.Date).To(Equal("2024-01-15"))
		})

		It("should format the total to two decimals", func() {
			Expect(view.Total).To(Equal("24.50"))
		})

		It("should bind the items", func() {
			Expect(view.Items).To(Equal([]ItemView{{Name: "Latte", Quantity: 2, Price: "4.50"}}))
		})
	})

	When("the payload is partial", func() {
		BeforeEach(func() {
			result = &Result{
				Merchant: strPtr("Shop"),
				Items:    []ResultItem{{Name: strPtr("Soap")}},
			}
		})

		It("should keep the merchant", func() {
			Expect(view.Merchant).To(Equal("Shop"))
		})

		It("should render a missing date as N/A", func() {
			Expect(view.Date).To(Equal("N/A"))
		})

		It("should render a missing total as 0.00", func() {
			Expect(view.Total).To(Equal("0.00"))
		})

		It("should default a missing quantity to 1", func() {
			Expect(view.Items[0].Quantity).To(Equal(1))
		})

		It("should render a missing price as 0.00", func() {
			Expect(view.Items[0].Price).To(Equal("0.00"))
		})
	})

	When("the payload is empty", func() {
		BeforeEach(func() {
			result = &Result{}
		})

		It("should render the merchant as N/A", func() {
			Expect(view.Merchant).To(Equal("N/A"))
		})

		It("should render missing items as an empty sequence", func() {
			Expect(view.Items).To(BeEmpty())
			Expect(view.Items).NotTo(BeNil())
		})
	})

	Describe("item name fallback", func() {
		When("a description is present", func() {
			BeforeEach(func() {
				result = &Result{
					Items: []ResultItem{{Name: strPtr("SKU-1"), Description: strPtr("Hand soap")}},
				}
			})

			It("should prefer the description", func() {
				Expect(view.Items[0].Name).To(Equal("Hand soap"))
			})
		})

		When("only a name is present", func() {
			BeforeEach(func() {
				result = &Result{Items: []ResultItem{{Name: strPtr("SKU-1")}}}
			})

			It("should use the name", func() {
				Expect(view.Items[0].Name).To(Equal("SKU-1"))
			})
		})

		When("neither is present", func() {
			BeforeEach(func() {
				result = &Result{Items: []ResultItem{{}, {}}}
			})

			It("should fall back to the 1-based item index", func() {
				Expect(view.Items[0].Name).To(Equal("Item 1"))
				Expect(view.Items[1].Name).To(Equal("Item 2"))
			})
		})

		When("the fields are present but empty", func() {
			BeforeEach(func() {
				result = &Result{Items: []ResultItem{{Name: strPtr(""), Description: strPtr("")}}}
			})

			It("should fall back to the 1-based item index", func() {
				Expect(view.Items[0].Name).To(Equal("Item 1"))
			})
		})
	})
})
