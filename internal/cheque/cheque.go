package cheque

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ChequeRecord is the canonical persisted form of a processed cheque. The ID
// is assigned by the store and never reused; Date is always YYYY-MM-DD and
// Amount is always a non-negative decimal. Records are immutable once stored.
type ChequeRecord struct {
	ID            uint64          `json:"id" csv:"id"`
	ChequeNumber  string          `json:"cheque_number" csv:"cheque_number"`
	AccountNumber string          `json:"account_number" csv:"account_number"`
	BankName      string          `json:"bank_name" csv:"bank_name"`
	Payee         string          `json:"payee" csv:"payee"`
	Amount        decimal.Decimal `json:"amount" csv:"amount"`
	Date          string          `json:"date" csv:"date"`
}

// NormalizeChequeNumber produces the uniqueness key for a cheque number.
// Two numbers differing only by case or surrounding whitespace identify the
// same cheque.
func NormalizeChequeNumber(chequeNumber string) string {
	return strings.ToUpper(strings.TrimSpace(chequeNumber))
}
