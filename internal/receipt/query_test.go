package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Query", func() {
	var (
		receipts []Receipt
		filter   FilterCriteria
		spec     SortSpec
		view     []Receipt
	)

	ids := func(view []Receipt) []string {
		out := make([]string, 0, len(view))
		for _, r := range view {
			out = append(out, r.ID)
		}
		return out
	}

	BeforeEach(func() {
		receipts = []Receipt{
			{ID: "1", Merchant: "Cafe", Date: "2024-01-01", Total: money("10.00")},
			{ID: "2", Merchant: "Mart", Date: "2024-02-01", Total: money("20.00")},
			{ID: "3", Merchant: "Corner Cafe", Date: "2023-12-15", Total: money("7.50")},
		}
		filter = FilterCriteria{}
		spec = SortSpec{Field: SortByDate, Order: Ascending}
	})

	JustBeforeEach(func() {
		view = Query(receipts, filter, spec)
	})

	When("criteria are empty", func() {
		It("should return the full collection in membership", func() {
			Expect(view).To(HaveLen(3))
		})

		It("should not mutate the input collection", func() {
			Expect(receipts[0].ID).To(Equal("1"))
			Expect(receipts[1].ID).To(Equal("2"))
			Expect(receipts[2].ID).To(Equal("3"))
		})
	})

	When("filtering by a merchant substring", func() {
		BeforeEach(func() {
			filter.Merchant = "ca"
		})

		It("should include records whose merchant contains it case-insensitively", func() {
			Expect(ids(view)).To(ConsistOf("1", "3"))
		})

		It("should exclude records whose merchant does not contain it", func() {
			Expect(ids(view)).NotTo(ContainElement("2"))
		})
	})

	When("filtering by an exact date", func() {
		BeforeEach(func() {
			filter.Date = "2024-02-01"
		})

		It("should include only records with that date", func() {
			Expect(ids(view)).To(Equal([]string{"2"}))
		})
	})

	When("merchant and date filters are combined", func() {
		BeforeEach(func() {
			filter.Merchant = "cafe"
			filter.Date = "2024-01-01"
		})

		It("should require both conditions", func() {
			Expect(ids(view)).To(Equal([]string{"1"}))
		})
	})

	When("no record matches", func() {
		BeforeEach(func() {
			filter.Merchant = "pharmacy"
		})

		It("should return an empty view", func() {
			Expect(view).To(BeEmpty())
		})
	})

	Describe("sorting", func() {
		When("sorting by date ascending", func() {
			It("should order by calendar instant, not string order", func() {
				Expect(ids(view)).To(Equal([]string{"3", "1", "2"}))
			})
		})

		When("sorting by date descending", func() {
			BeforeEach(func() {
				spec.Order = Descending
			})

			It("should yield the reversed ordering", func() {
				Expect(ids(view)).To(Equal([]string{"2", "1", "3"}))
			})
		})

		When("sorting by total", func() {
			BeforeEach(func() {
				spec.Field = SortByTotal
			})

			It("should compare numerically ascending", func() {
				Expect(ids(view)).To(Equal([]string{"3", "1", "2"}))
			})

			It("should reverse exactly for descending with no tied values", func() {
				asc := Query(receipts, filter, SortSpec{Field: SortByTotal, Order: Ascending})
				desc := Query(receipts, filter, SortSpec{Field: SortByTotal, Order: Descending})
				for i := range asc {
					Expect(desc[len(desc)-1-i].ID).To(Equal(asc[i].ID))
				}
			})
		})

		When("sorting by merchant", func() {
			BeforeEach(func() {
				spec.Field = SortByMerchant
				receipts[1].Merchant = "avenue mart"
			})

			It("should compare lowercased strings lexicographically", func() {
				Expect(ids(view)).To(Equal([]string{"2", "1", "3"}))
			})
		})

		When("the sort field ties", func() {
			BeforeEach(func() {
				spec.Field = SortByTotal
				receipts = []Receipt{
					{ID: "b", Merchant: "One", Date: "2024-01-01", Total: money("5.00")},
					{ID: "a", Merchant: "Two", Date: "2024-01-02", Total: money("5.00")},
				}
			})

			It("should break the tie deterministically on id", func() {
				Expect(ids(view)).To(Equal([]string{"a", "b"}))
			})
		})
	})
})
