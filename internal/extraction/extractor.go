package extraction

import "context"

// ChequeData is the raw field mapping decoded from the model's response,
// before any normalization besides the cheque date. Fields the model could
// not read come back as empty strings.
type ChequeData struct {
	ChequeNumber  string `json:"cheque_number"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	PayeeName     string `json:"payee_name"`
	Amount        string `json:"amount"`
	ChequeDate    string `json:"cheque_date"`
}

// Extractor reads the printed and handwritten fields off a cheque image.
type Extractor interface {
	// Extract sends the image to the vision model and decodes the reply.
	// One outbound call per invocation; no retries. The context bounds the
	// model call.
	Extract(ctx context.Context, imageData []byte, contentType string) (*ChequeData, error)
	// Close releases client resources.
	Close() error
}
