package cheque

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// MarshalCSV renders records as CSV with a header row, matching the
// dashboard's download format.
func MarshalCSV(records []*ChequeRecord) ([]byte, error) {
	data, err := gocsv.MarshalBytes(&records)
	if err != nil {
		return nil, fmt.Errorf("marshaling cheques to CSV: %w", err)
	}
	return data, nil
}
