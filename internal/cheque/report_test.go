package cheque

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("BuildSummary", func() {
	var (
		records []*ChequeRecord
		summary *Summary
	)

	JustBeforeEach(func() {
		summary = BuildSummary(records)
	})

	When("there are no records", func() {
		BeforeEach(func() {
			records = nil
		})

		It("returns zeroed totals and empty lists", func() {
			Expect(summary.TotalCheques).To(BeZero())
			Expect(summary.TotalAmount).To(Equal(decimal.Zero))
			Expect(summary.AverageAmount).To(Equal(decimal.Zero))
			Expect(summary.TopPayees).To(BeEmpty())
			Expect(summary.TopBanks).To(BeEmpty())
			Expect(summary.ChequesByDate).To(BeEmpty())
		})
	})

	When("records exist", func() {
		BeforeEach(func() {
			records = []*ChequeRecord{
				{ID: 1, Payee: "Alice", BankName: "First National", Amount: decimal.NewFromInt(100), Date: "2024-01-16"},
				{ID: 2, Payee: "Alice", BankName: "First National", Amount: decimal.NewFromInt(200), Date: "2024-01-16"},
				{ID: 3, Payee: "Bob", BankName: "Metro Bank", Amount: decimal.NewFromInt(50), Date: "2024-01-15"},
			}
		})

		It("counts the cheques", func() {
			Expect(summary.TotalCheques).To(Equal(3))
		})

		It("sums the amounts", func() {
			Expect(summary.TotalAmount.Equal(decimal.NewFromInt(350))).To(BeTrue())
		})

		It("averages to two decimal places", func() {
			Expect(summary.AverageAmount.Equal(decimal.RequireFromString("116.67"))).To(BeTrue())
		})

		It("ranks payees by count", func() {
			Expect(summary.TopPayees[0]).To(Equal(NameCount{Name: "Alice", Count: 2}))
			Expect(summary.TopPayees[1]).To(Equal(NameCount{Name: "Bob", Count: 1}))
		})

		It("ranks banks by count", func() {
			Expect(summary.TopBanks[0]).To(Equal(NameCount{Name: "First National", Count: 2}))
		})

		It("orders date counts chronologically", func() {
			Expect(summary.ChequesByDate).To(Equal([]DateCount{
				{Date: "2024-01-15", Count: 1},
				{Date: "2024-01-16", Count: 2},
			}))
		})
	})

	When("more than five payees exist", func() {
		BeforeEach(func() {
			records = nil
			for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
				records = append(records, &ChequeRecord{
					Payee:    name,
					BankName: "First National",
					Amount:   decimal.NewFromInt(10),
					Date:     "2024-01-16",
				})
			}
		})

		It("keeps only the top five", func() {
			Expect(summary.TopPayees).To(HaveLen(5))
		})
	})
})
