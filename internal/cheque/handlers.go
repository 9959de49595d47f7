package cheque

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
)

// maxUploadSize caps the multipart form at 50MB to accommodate
// high-resolution phone scans.
const maxUploadSize = int64(50 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// uploadResult is the per-file response of a cheque upload
type uploadResult struct {
	Filename     string        `json:"filename"`
	Status       OutcomeStatus `json:"status"`
	Record       *ChequeRecord `json:"record,omitempty"`
	ChequeNumber string        `json:"cheque_number,omitempty"`
	Reason       string        `json:"reason,omitempty"`
}

// handleUploadCheques runs each uploaded file through the pipeline. It
// accepts one or many files under the "files" form key ("file" also works)
// and reports a per-file outcome; a duplicate cheque is a warning for the
// caller, not a failure.
func (s *Server) handleUploadCheques(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error parsing form"})
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file was selected. Please choose a cheque to upload."})
		return
	}

	// One bad file must not swallow the outcomes of files already processed
	// in the same batch, so per-file problems become per-file results.
	results := make([]uploadResult, 0, len(files))
	for _, header := range files {
		if header.Size > maxUploadSize {
			results = append(results, uploadResult{
				Filename: header.Filename,
				Status:   StatusRejected,
				Reason:   "file is too large: maximum size is 50MB",
			})
			continue
		}

		data, contentType, err := readUpload(header)
		if err != nil {
			slog.Error("Error reading uploaded file", "error", err, "filename", header.Filename)
			results = append(results, uploadResult{
				Filename: header.Filename,
				Status:   StatusRejected,
				Reason:   "could not read uploaded file",
			})
			continue
		}

		outcome, err := s.service.Process(r.Context(), header.Filename, data, contentType)
		if err != nil {
			// A storage failure is not a per-file verdict; report it, but
			// keep the results of the files that already went through.
			slog.Error("Cheque processing failed", "error", err, "filename", header.Filename)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Internal server error",
				"results": results,
			})
			return
		}

		result := uploadResult{Filename: header.Filename, Status: outcome.Status}
		switch outcome.Status {
		case StatusStored:
			result.Record = outcome.Record
		case StatusDuplicate:
			result.ChequeNumber = outcome.ChequeNumber
		case StatusRejected:
			result.Reason = outcome.Reason.Error()
		}
		results = append(results, result)
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// readUpload reads one multipart file and picks its content type
func readUpload(header *multipart.FileHeader) ([]byte, string, error) {
	f, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// handleListCheques returns all stored cheque records
func (s *Server) handleListCheques(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListCheques()
	if err != nil {
		slog.Error("Error listing cheques", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleChequeImage serves the archived source image for a record
func (s *Server) handleChequeImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		corsError(w, "Invalid cheque id", http.StatusBadRequest)
		return
	}

	data, err := s.service.ChequeImage(id)
	if err != nil {
		corsError(w, "Cheque image not found", http.StatusNotFound)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}

// handleExportCSV streams all records as a CSV download
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListCheques()
	if err != nil {
		slog.Error("Error listing cheques", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := MarshalCSV(records)
	if err != nil {
		slog.Error("Error exporting cheques to CSV", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cheques_data.csv"`)
	w.Write(data)
}

// handleExportJSON serves all records as a JSON download
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListCheques()
	if err != nil {
		slog.Error("Error listing cheques", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="cheques_data.json"`)
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleSummary returns the dashboard aggregates
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary()
	if err != nil {
		slog.Error("Error building summary", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
