package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Anshika-Kumari2003/checkmate-app/internal/normalize"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// MalformedOutputError reports a model reply whose cleaned text was not a
// valid JSON object. Raw keeps the response text for diagnostics.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("parsing model response: %v (response text: %s)", e.Err, e.Raw)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// decodeChequeJSON turns the model's free-text reply into ChequeData. All the
// cleanup heuristics live here so the step can be tested with canned
// responses: markdown code fences, an optional leading "json" language tag,
// and any chatter around the outermost braces are stripped before decoding.
// A present cheque date is normalized in place; its failure aborts the
// extraction.
func decodeChequeJSON(text string) (*ChequeData, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = strings.TrimSpace(text[4:])
	}

	if text == "" {
		return nil, ErrEmptyResponse
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return nil, &MalformedOutputError{Raw: text, Err: errors.New("no JSON object in response")}
	}

	var data ChequeData
	if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
		return nil, &MalformedOutputError{Raw: text, Err: err}
	}

	if data.ChequeDate != "" {
		date, err := normalize.Date(data.ChequeDate)
		if err != nil {
			return nil, err
		}
		data.ChequeDate = date
	}

	return &data, nil
}
