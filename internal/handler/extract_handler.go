package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/pipeline"
)

// ExtractHandler serves the full pipeline endpoints.
type ExtractHandler struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

func NewExtractHandler(p *pipeline.Pipeline, logger *zap.Logger) *ExtractHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractHandler{pipeline: p, logger: logger}
}

// TextRequest is the request body for text endpoints.
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// FromText runs the pipeline over raw bill text.
// POST /api/v1/extract/text
func (h *ExtractHandler) FromText(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text field is required")
		return
	}

	result := h.pipeline.ProcessText(req.Text)
	RespondOK(c, result)
}

// FromImage runs the pipeline over an uploaded bill image.
// POST /api/v1/extract/image
func (h *ExtractHandler) FromImage(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}

	result := h.pipeline.ProcessImage(c.Request.Context(), data)
	RespondOK(c, result)
}

// readUpload pulls the "file" form field out of a multipart request. On
// failure the error response is already written.
func readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not open uploaded file")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return nil, false
	}
	return data, true
}
