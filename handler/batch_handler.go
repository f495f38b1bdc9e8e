package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
	"github.com/Aashish23092/ocr-phone-extractor/service"
)

type BatchHandler struct {
	batch *service.BatchService
}

func NewBatchHandler(batch *service.BatchService) *BatchHandler {
	return &BatchHandler{batch: batch}
}

// Upload handles POST /api/v1/queue
func (h *BatchHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", "Failed to parse multipart form", err)
		return
	}

	request := &dto.UploadRequest{Files: form.File["files[]"]}
	if err := request.Validate(); err != nil {
		sendServiceError(c, "No files provided", err)
		return
	}

	uploads := make([]service.Upload, 0, len(request.Files))
	for _, fh := range request.Files {
		data, err := readFile(fh)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", "Failed to read uploaded file", err)
			return
		}
		uploads = append(uploads, service.Upload{FileName: fh.Filename, Data: data})
	}

	accepted, dropped, rejected := h.batch.Queue().Enqueue(uploads)
	logger.Info(c.Request.Context(), "files queued",
		"accepted", len(accepted),
		"dropped", dropped,
		"rejected", len(rejected),
	)

	if accepted == nil {
		accepted = []dto.QueueItem{}
	}
	c.JSON(http.StatusOK, dto.UploadResponse{
		Accepted: accepted,
		Dropped:  dropped,
		Rejected: rejected,
	})
}

// ListQueue handles GET /api/v1/queue
func (h *BatchHandler) ListQueue(c *gin.Context) {
	items := h.batch.Queue().Items()
	c.JSON(http.StatusOK, dto.QueueResponse{Count: len(items), Items: items})
}

// ClearQueue handles DELETE /api/v1/queue
func (h *BatchHandler) ClearQueue(c *gin.Context) {
	if err := h.batch.ClearQueue(); err != nil {
		sendServiceError(c, "Failed to clear queue", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Run handles POST /api/v1/batch/run. The pass finishes even if the client goes away.
func (h *BatchHandler) Run(c *gin.Context) {
	summary, err := h.batch.Run(c.Request.Context(), nil)
	if err != nil {
		sendServiceError(c, "Batch finished but numbers could not be saved", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Numbers handles GET /api/v1/numbers
func (h *BatchHandler) Numbers(c *gin.Context) {
	numbers := h.batch.Session().Numbers()
	if numbers == nil {
		numbers = []dto.ExtractedNumber{}
	}
	c.JSON(http.StatusOK, dto.NumbersResponse{Count: len(numbers), Numbers: numbers})
}

// Reset handles DELETE /api/v1/session. With ?full=true the export history and
// counter are cleared as well.
func (h *BatchHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query", err)
		return
	}
	if err := h.batch.Reset(c.Request.Context(), req.Full); err != nil {
		sendServiceError(c, "Failed to reset session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}
