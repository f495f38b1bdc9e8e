package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".pdf"}

// UploadRequest represents one upload action of the operator
type UploadRequest struct {
	Files []*multipart.FileHeader `form:"files[]" binding:"required"`
}

// Validate performs basic validation on the request
func (r *UploadRequest) Validate() error {
	if len(r.Files) == 0 {
		return ErrNoFiles
	}
	return nil
}

// ValidateFileName rejects names whose extension is not a supported image or PDF.
func ValidateFileName(name string) error {
	lower := strings.ToLower(name)
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
}

// ExportRequest selects the CSV layout of an export.
type ExportRequest struct {
	Mode string `form:"mode" json:"mode"`
}

// ParseExportMode maps a user supplied mode onto an ExportMode; empty means standard.
func ParseExportMode(s string) (ExportMode, error) {
	switch ExportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportModeStandard:
		return ExportModeStandard, nil
	case ExportModeGoogle:
		return ExportModeGoogle, nil
	}
	return "", errors.New("mode must be one of: standard, google")
}

// ResetRequest selects whether a reset also drops export history and counter.
type ResetRequest struct {
	Full bool `form:"full"`
}
