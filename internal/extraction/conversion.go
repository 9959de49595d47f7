package extraction

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// chequeExtractPrompt is the fixed field-schema instruction shared by all
// model backends. The schema keys must stay in sync with ChequeData.
const chequeExtractPrompt = `Extract details from the cheque and return a JSON object with the following fields:
{
    "cheque_number": "",
    "account_number": "",
    "bank_name": "",
    "payee_name": "",
    "amount": "",
    "cheque_date": ""
}

Important:
- Every value must be a string
- Use an empty string for any field you cannot read
- Do not include any text before or after the JSON`

// pdfFirstPage renders the first page of a PDF as PNG. Cheques arrive as
// single-page scans, so later pages are ignored.
func pdfFirstPage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageToPNG re-encodes any supported image format as PNG. HEIC/HEIF scans
// from phone cameras need their own decoder; everything else goes through
// the registered stdlib decoders.
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEIC(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC checks the ftyp box brand for HEIC/HEIF signatures.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// prepareImageData converts whatever the caller uploaded (PDF, HEIC, JPEG,
// PNG, GIF) into PNG bytes for the model.
func prepareImageData(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	switch {
	case mimeType == "application/pdf":
		return pdfFirstPage(imageData)
	case mimeType != "image/png" || isHEIC(imageData):
		return imageToPNG(imageData, mimeType)
	default:
		return imageData, nil
	}
}
