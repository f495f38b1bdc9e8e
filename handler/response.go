package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/middleware"
	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
)

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		logger.Warn(c.Request.Context(), message, "error", err, "status", statusCode)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:     code,
		Message:   errorMsg,
		Code:      statusCode,
		RequestID: middleware.GetRequestID(c),
	})
}

// sendServiceError maps the known service errors onto a status and code.
func sendServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, dto.ErrNoFiles), errors.Is(err, dto.ErrUnsupportedFile):
		sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", message, err)
	case errors.Is(err, dto.ErrNothingToExport):
		sendError(c, http.StatusConflict, "NOTHING_TO_EXPORT", message, err)
	case errors.Is(err, dto.ErrExportNotFound):
		sendError(c, http.StatusNotFound, "EXPORT_NOT_FOUND", message, err)
	case errors.Is(err, dto.ErrBatchRunning):
		sendError(c, http.StatusConflict, "BATCH_RUNNING", message, err)
	default:
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, err)
	}
}
