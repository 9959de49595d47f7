package cheque

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Anshika-Kumari2003/checkmate-app/internal/extraction"
	"github.com/Anshika-Kumari2003/checkmate-app/internal/normalize"
)

const (
	chequeBucketName = "cheques"
	numberBucketName = "cheque_numbers"
)

// ErrDuplicateCheque is returned by Insert when the normalized cheque number
// is already indexed. The store enforces this inside its write transaction,
// so it holds even when two callers race past the Exists pre-check.
var ErrDuplicateCheque = errors.New("cheque number already processed")

// DB defines the interface for cheque persistence
type DB interface {
	// Exists reports whether a cheque with this number has been stored.
	// The lookup is case and whitespace insensitive.
	Exists(chequeNumber string) (bool, error)

	// Insert normalizes the extracted fields and appends a new record with a
	// store-assigned ID. An unparseable date aborts with no write; a
	// duplicate cheque number fails with ErrDuplicateCheque.
	Insert(data *extraction.ChequeData) (*ChequeRecord, error)

	// ListCheques returns all stored records
	ListCheques() ([]*ChequeRecord, error)

	// Close closes the database
	Close() error
}

// BoltDB implements the DB interface using bbolt. Records live in one bucket
// keyed by their sequence ID; a second bucket maps normalized cheque numbers
// to record IDs and doubles as the uniqueness constraint.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens (or creates) the database at path
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(chequeBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(numberBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// Exists reports whether a cheque with this number has been stored
func (b *BoltDB) Exists(chequeNumber string) (bool, error) {
	key := NormalizeChequeNumber(chequeNumber)
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket([]byte(numberBucketName)).Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("checking cheque number: %w", err)
	}
	return found, nil
}

// Insert appends a new cheque record built from the extracted fields
func (b *BoltDB) Insert(data *extraction.ChequeData) (*ChequeRecord, error) {
	// Normalize before touching the store so a bad date never writes.
	date, err := normalize.Date(data.ChequeDate)
	if err != nil {
		return nil, err
	}
	amount := normalize.Amount(data.Amount)
	key := NormalizeChequeNumber(data.ChequeNumber)

	var record *ChequeRecord
	err = b.db.Update(func(tx *bbolt.Tx) error {
		cheques := tx.Bucket([]byte(chequeBucketName))
		numbers := tx.Bucket([]byte(numberBucketName))

		// Empty cheque numbers are stored but never indexed, so they cannot
		// collide with each other.
		if key != "" && numbers.Get([]byte(key)) != nil {
			return ErrDuplicateCheque
		}

		id, err := cheques.NextSequence()
		if err != nil {
			return fmt.Errorf("assigning cheque id: %w", err)
		}

		record = &ChequeRecord{
			ID:            id,
			ChequeNumber:  data.ChequeNumber,
			AccountNumber: data.AccountNumber,
			BankName:      data.BankName,
			Payee:         data.PayeeName,
			Amount:        amount,
			Date:          date,
		}

		encoded, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling cheque: %w", err)
		}
		if err := cheques.Put(itob(id), encoded); err != nil {
			return err
		}
		if key != "" {
			return numbers.Put([]byte(key), itob(id))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateCheque) {
			return nil, err
		}
		return nil, fmt.Errorf("inserting cheque: %w", err)
	}
	return record, nil
}

// ListCheques returns all stored records
func (b *BoltDB) ListCheques() ([]*ChequeRecord, error) {
	records := make([]*ChequeRecord, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(chequeBucketName)).ForEach(func(k, v []byte) error {
			var record ChequeRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling cheque: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the database
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// itob returns an 8-byte big-endian representation of v, so bucket iteration
// follows insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
