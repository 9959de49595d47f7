package cheque

import (
	"sort"

	"github.com/shopspring/decimal"
)

const topN = 5

// NameCount pairs a payee or bank name with its cheque count
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DateCount pairs a cheque date with the number of cheques on it
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary holds the dashboard aggregates computed over all stored cheques
type Summary struct {
	TotalCheques  int             `json:"total_cheques"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	TopPayees     []NameCount     `json:"top_payees"`
	TopBanks      []NameCount     `json:"top_banks"`
	ChequesByDate []DateCount     `json:"cheques_by_date"`
}

// BuildSummary computes aggregates from a set of records. An empty set
// yields a zeroed summary with empty (not nil) lists.
func BuildSummary(records []*ChequeRecord) *Summary {
	summary := &Summary{
		TotalCheques:  len(records),
		TotalAmount:   decimal.Zero,
		AverageAmount: decimal.Zero,
		TopPayees:     []NameCount{},
		TopBanks:      []NameCount{},
		ChequesByDate: []DateCount{},
	}

	if len(records) == 0 {
		return summary
	}

	payees := make(map[string]int)
	banks := make(map[string]int)
	dates := make(map[string]int)
	for _, r := range records {
		summary.TotalAmount = summary.TotalAmount.Add(r.Amount)
		payees[r.Payee]++
		banks[r.BankName]++
		dates[r.Date]++
	}

	summary.AverageAmount = summary.TotalAmount.
		Div(decimal.NewFromInt(int64(len(records)))).
		Round(2)
	summary.TopPayees = topCounts(payees)
	summary.TopBanks = topCounts(banks)
	summary.ChequesByDate = dateCounts(dates)

	return summary
}

// topCounts returns the topN entries by count, name as tie-break so the
// order is stable.
func topCounts(counts map[string]int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func dateCounts(counts map[string]int) []DateCount {
	out := make([]DateCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, DateCount{Date: date, Count: count})
	}
	// Canonical dates sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
