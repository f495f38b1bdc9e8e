package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-phone-extractor/middleware"
)

// NewRouter wires the API routes onto a gin engine.
func NewRouter(batch *BatchHandler, export *ExportHandler, maxUploadMB int64) *gin.Engine {
	router := gin.New()
	if maxUploadMB > 0 {
		router.MaxMultipartMemory = maxUploadMB << 20
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "OCR Phone Extractor",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/queue", batch.Upload)
		api.GET("/queue", batch.ListQueue)
		api.DELETE("/queue", batch.ClearQueue)
		api.POST("/batch/run", batch.Run)
		api.GET("/numbers", batch.Numbers)
		api.DELETE("/session", batch.Reset)

		exports := api.Group("/exports")
		{
			exports.POST("", export.Export)
			exports.GET("", export.History)
			exports.DELETE("", export.ClearHistory)
			exports.GET("/:id", export.Download)
			exports.GET("/:id/xlsx", export.DownloadXLSX)
		}
	}

	return router
}
