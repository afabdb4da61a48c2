package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Summarize", func() {
	var (
		receipts []Receipt
		summary  Summary
	)

	JustBeforeEach(func() {
		summary = Summarize(receipts)
	})

	When("the collection is empty", func() {
		BeforeEach(func() {
			receipts = nil
		})

		It("should return a zero count", func() {
			Expect(summary.Count).To(BeZero())
		})

		It("should return a zero total", func() {
			Expect(summary.Total.IsZero()).To(BeTrue())
		})
	})

	When("the collection has receipts", func() {
		BeforeEach(func() {
			receipts = []Receipt{
				{ID: "1", Merchant: "Cafe", Date: "2024-01-01", Total: money("10.00")},
				{ID: "2", Merchant: "Mart", Date: "2024-02-01", Total: money("20.00")},
			}
		})

		It("should count the receipts", func() {
			Expect(summary.Count).To(Equal(2))
		})

		It("should sum the totals", func() {
			Expect(summary.Total.Equal(money("30.00"))).To(BeTrue())
		})
	})

	When("summarizing a filtered view", func() {
		BeforeEach(func() {
			full := []Receipt{
				{ID: "1", Merchant: "Cafe", Date: "2024-01-01", Total: money("10.00")},
				{ID: "2", Merchant: "Mart", Date: "2024-02-01", Total: money("20.00")},
			}
			receipts = Query(full, FilterCriteria{Merchant: "ca"}, SortSpec{Field: SortByDate, Order: Ascending})
		})

		It("should equal the aggregate over that same filtered sequence", func() {
			Expect(receipts).To(HaveLen(1))
			Expect(summary.Count).To(Equal(1))
			Expect(summary.Total.Equal(money("10.00"))).To(BeTrue())
		})
	})
})
