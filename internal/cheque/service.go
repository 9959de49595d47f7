package cheque

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Anshika-Kumari2003/checkmate-app/internal/extraction"
	"github.com/Anshika-Kumari2003/checkmate-app/internal/normalize"
)

// isRejection reports whether an insert failure means the cheque itself is
// bad, as opposed to the storage being unavailable.
func isRejection(err error) bool {
	var invalid *normalize.InvalidDateError
	return errors.As(err, &invalid)
}

// OutcomeStatus tags the result of one pipeline run
type OutcomeStatus string

const (
	StatusStored    OutcomeStatus = "stored"
	StatusDuplicate OutcomeStatus = "duplicate"
	StatusRejected  OutcomeStatus = "rejected"
)

// Outcome is the tagged result of processing one cheque image. Exactly one
// of the payload fields is meaningful for a given status: Record for stored,
// ChequeNumber for duplicate, Reason for rejected.
type Outcome struct {
	Status       OutcomeStatus
	Record       *ChequeRecord
	ChequeNumber string
	Reason       error
}

// Service runs the extraction-validation-persistence pipeline
type Service struct {
	db        DB
	extractor extraction.Extractor
	archive   Storage

	// ExtractTimeout bounds the extraction step only; the duplicate check,
	// insert, and archive write of a Process run are not subject to it.
	ExtractTimeout time.Duration
}

// NewService creates a new Service. The archive is optional; pass nil to
// skip keeping source images.
func NewService(db DB, extractor extraction.Extractor, archive Storage) *Service {
	return &Service{
		db:             db,
		extractor:      extractor,
		archive:        archive,
		ExtractTimeout: 30 * time.Second,
	}
}

// Process runs one cheque image through the pipeline: extract fields, check
// for a duplicate cheque number, insert. Extraction and date failures come
// back as a rejected Outcome; duplicate detection is a normal outcome, not
// an error. Only storage failures are returned as the error value, so the
// caller can decide whether to retry.
func (s *Service) Process(ctx context.Context, filename string, imageData []byte, contentType string) (*Outcome, error) {
	extractCtx := ctx
	if s.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, s.ExtractTimeout)
		defer cancel()
	}

	data, err := s.extractor.Extract(extractCtx, imageData, contentType)
	if err != nil {
		slog.Warn("Cheque extraction failed",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(imageData),
			"error", err,
		)
		return &Outcome{Status: StatusRejected, Reason: err}, nil
	}

	// An empty cheque number is a real (if useless) key: it skips the
	// duplicate gate and proceeds to storage.
	key := NormalizeChequeNumber(data.ChequeNumber)
	if key != "" {
		exists, err := s.db.Exists(key)
		if err != nil {
			return nil, fmt.Errorf("checking for duplicate cheque: %w", err)
		}
		if exists {
			return &Outcome{Status: StatusDuplicate, ChequeNumber: key}, nil
		}
	}

	record, err := s.db.Insert(data)
	if err != nil {
		// A racing writer can slip in between Exists and Insert; the store's
		// own uniqueness check catches it.
		if errors.Is(err, ErrDuplicateCheque) {
			return &Outcome{Status: StatusDuplicate, ChequeNumber: key}, nil
		}
		if isRejection(err) {
			return &Outcome{Status: StatusRejected, Reason: err}, nil
		}
		return nil, fmt.Errorf("storing cheque: %w", err)
	}

	if s.archive != nil {
		name := fmt.Sprintf("%d_%s", record.ID, sanitizeFilename(filename))
		if _, err := s.archive.Save(name, imageData); err != nil {
			// The record is the source of truth; a failed archive write is
			// not worth failing the upload over.
			slog.Warn("Failed to archive cheque image", "filename", name, "error", err)
		}
	}

	return &Outcome{Status: StatusStored, Record: record}, nil
}

// ListCheques returns all stored records
func (s *Service) ListCheques() ([]*ChequeRecord, error) {
	records, err := s.db.ListCheques()
	if err != nil {
		return nil, fmt.Errorf("listing cheques: %w", err)
	}
	return records, nil
}

// ChequeImage retrieves the archived source image for a record
func (s *Service) ChequeImage(id uint64) ([]byte, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("image archive is not configured")
	}
	name, err := s.archive.Find(fmt.Sprintf("%d_", id))
	if err != nil {
		return nil, fmt.Errorf("locating cheque image: %w", err)
	}
	data, err := s.archive.Get(name)
	if err != nil {
		return nil, fmt.Errorf("reading cheque image: %w", err)
	}
	return data, nil
}

// Summary computes the dashboard aggregates over all stored records
func (s *Service) Summary() (*Summary, error) {
	records, err := s.db.ListCheques()
	if err != nil {
		return nil, fmt.Errorf("listing cheques: %w", err)
	}
	return BuildSummary(records), nil
}

var (
	filenameStripRE = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaceRE         = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up an uploaded filename before it becomes part of
// an archive path.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	base = filenameStripRE.ReplaceAllString(base, "")
	base = strings.TrimSpace(spaceRE.ReplaceAllString(base, " "))

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "cheque"
	}

	return base + ext
}
