package cheque

import (
	"errors"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/Anshika-Kumari2003/checkmate-app/internal/extraction"
	"github.com/Anshika-Kumari2003/checkmate-app/internal/normalize"
)

func validChequeData() *extraction.ChequeData {
	return &extraction.ChequeData{
		ChequeNumber:  "AB1234",
		AccountNumber: "000123456",
		BankName:      "First National",
		PayeeName:     "Jane Doe",
		Amount:        "$500.00",
		ChequeDate:    "12/31/2024",
	}
}

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		db, err = NewBoltDB(filepath.Join(tmpDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("Insert", func() {
		var (
			data   *extraction.ChequeData
			record *ChequeRecord
			err    error
		)

		BeforeEach(func() {
			data = validChequeData()
		})

		JustBeforeEach(func() {
			record, err = db.Insert(data)
		})

		When("inserting a valid cheque", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should assign a store-generated id", func() {
				Expect(record.ID).To(Equal(uint64(1)))
			})

			It("should normalize the amount", func() {
				Expect(record.Amount.Equal(decimal.NewFromInt(500))).To(BeTrue())
			})

			It("should normalize the date", func() {
				Expect(record.Date).To(Equal("2024-12-31"))
			})

			It("should carry the free-form fields through", func() {
				Expect(record.ChequeNumber).To(Equal("AB1234"))
				Expect(record.AccountNumber).To(Equal("000123456"))
				Expect(record.BankName).To(Equal("First National"))
				Expect(record.Payee).To(Equal("Jane Doe"))
			})
		})

		When("the amount is malformed", func() {
			BeforeEach(func() {
				data.Amount = "abc"
			})

			It("should store the cheque with a zero amount", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Amount).To(Equal(decimal.Zero))
			})
		})

		When("the date is unparseable", func() {
			BeforeEach(func() {
				data.ChequeDate = "2024/13/45"
			})

			It("returns an InvalidDateError", func() {
				var invalid *normalize.InvalidDateError
				Expect(errors.As(err, &invalid)).To(BeTrue())
			})

			It("writes nothing", func() {
				records, listErr := db.ListCheques()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
			})

			It("leaves the cheque number unindexed", func() {
				exists, existsErr := db.Exists("AB1234")
				Expect(existsErr).NotTo(HaveOccurred())
				Expect(exists).To(BeFalse())
			})
		})

		When("the cheque number was already inserted", func() {
			BeforeEach(func() {
				_, insertErr := db.Insert(validChequeData())
				Expect(insertErr).NotTo(HaveOccurred())
			})

			It("fails with ErrDuplicateCheque", func() {
				Expect(err).To(MatchError(ErrDuplicateCheque))
			})

			It("does not add a second record", func() {
				records, listErr := db.ListCheques()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(1))
			})
		})

		When("the cheque number differs only by case and whitespace", func() {
			BeforeEach(func() {
				_, insertErr := db.Insert(validChequeData())
				Expect(insertErr).NotTo(HaveOccurred())
				data.ChequeNumber = "  ab1234  "
			})

			It("fails with ErrDuplicateCheque", func() {
				Expect(err).To(MatchError(ErrDuplicateCheque))
			})
		})

		When("the cheque number is empty", func() {
			BeforeEach(func() {
				first := validChequeData()
				first.ChequeNumber = ""
				_, insertErr := db.Insert(first)
				Expect(insertErr).NotTo(HaveOccurred())
				data.ChequeNumber = "   "
			})

			It("never collides with another empty number", func() {
				Expect(err).NotTo(HaveOccurred())
				records, listErr := db.ListCheques()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))
			})
		})
	})

	Describe("Exists", func() {
		BeforeEach(func() {
			_, err := db.Insert(validChequeData())
			Expect(err).NotTo(HaveOccurred())
		})

		It("finds the exact number", func() {
			exists, err := db.Exists("AB1234")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("is case and whitespace insensitive", func() {
			exists, err := db.Exists(" ab1234 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("does not find unknown numbers", func() {
			exists, err := db.Exists("ZZ0000")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("ListCheques", func() {
		When("the store is empty", func() {
			It("returns an empty slice, not an error", func() {
				records, err := db.ListCheques()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).NotTo(BeNil())
				Expect(records).To(BeEmpty())
			})
		})

		When("several cheques are stored", func() {
			BeforeEach(func() {
				for _, number := range []string{"A1", "A2", "A3"} {
					data := validChequeData()
					data.ChequeNumber = number
					_, err := db.Insert(data)
					Expect(err).NotTo(HaveOccurred())
				}
			})

			It("returns them all with distinct monotonic ids", func() {
				records, err := db.ListCheques()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(3))
				seen := map[uint64]bool{}
				for _, r := range records {
					Expect(seen[r.ID]).To(BeFalse())
					seen[r.ID] = true
				}
			})
		})
	})

	Describe("concurrent inserts of the same number", func() {
		It("stores exactly one record", func() {
			const writers = 8
			var wg sync.WaitGroup
			var mu sync.Mutex
			duplicates := 0

			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					_, err := db.Insert(validChequeData())
					if errors.Is(err, ErrDuplicateCheque) {
						mu.Lock()
						duplicates++
						mu.Unlock()
					} else {
						Expect(err).NotTo(HaveOccurred())
					}
				}()
			}
			wg.Wait()

			Expect(duplicates).To(Equal(writers - 1))
			records, err := db.ListCheques()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
		})
	})
})
