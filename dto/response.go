package dto

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNoFiles           = errors.New("no files provided")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrNothingToExport   = errors.New("no numbers to export")
	ErrExportNotFound    = errors.New("export record not found")
	ErrBatchRunning      = errors.New("a batch is already running")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// EncodingError reports that an image could not be read or decoded.
type EncodingError struct {
	FileName string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.FileName, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ExtractionError reports that the OCR backend failed or returned an unusable response.
type ExtractionError struct {
	Backend string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("ocr (%s): %v", e.Backend, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// UploadResponse is returned after an upload action
type UploadResponse struct {
	Accepted []QueueItem `json:"accepted"`
	Dropped  int         `json:"dropped"`
	Rejected []string    `json:"rejected,omitempty"`
}

// NumbersResponse lists the session result set
type NumbersResponse struct {
	Count   int               `json:"count"`
	Numbers []ExtractedNumber `json:"numbers"`
}

// HistoryResponse lists export records without their content
type HistoryResponse struct {
	Exports     []ExportSummary `json:"exports"`
	NextCounter int             `json:"next_counter"`
}

type ExportSummary struct {
	ID        string     `json:"id"`
	FileName  string     `json:"file_name"`
	CreatedAt string     `json:"created_at"`
	Count     int        `json:"count"`
	Mode      ExportMode `json:"mode"`
}

// QueueResponse lists queued items in ingestion order
type QueueResponse struct {
	Count int         `json:"count"`
	Items []QueueItem `json:"items"`
}
