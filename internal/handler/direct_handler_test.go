package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harish176/plum-project/internal/handler"
	"github.com/harish176/plum-project/mocks"
)

type directEnvelope struct {
	Success bool                 `json:"success"`
	Data    handler.DirectResult `json:"data"`
	Error   *handler.APIError    `json:"error"`
}

func TestDirectTextEndpoint(t *testing.T) {
	r := newTestRouter(new(mocks.MockImageOCR))

	body := `{"text": "Grand Total: 2400"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/direct/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp directEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "success", resp.Data.Status)
	assert.Equal(t, 1, resp.Data.TotalAmountsFound)
	require.Len(t, resp.Data.Amounts, 1)
	assert.Equal(t, "Grand Total", resp.Data.Amounts[0].Label)
	assert.Equal(t, 2400.0, resp.Data.Amounts[0].Value)
	assert.Equal(t, "direct_pattern_matching", resp.Data.ExtractionMethod)
}

func TestDirectImageEndpointRejectsNonImage(t *testing.T) {
	ocr := new(mocks.MockImageOCR)
	r := newTestRouter(ocr)

	req := newUpload(t, "/api/v1/direct/image", bytes.Repeat([]byte{0x42}, 200))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp directEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_IMAGE", resp.Error.Code)
	ocr.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestDirectImageEndpointRejectsOversizedImage(t *testing.T) {
	ocr := new(mocks.MockImageOCR)
	r := newTestRouter(ocr)

	image := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 11*1024*1024)...)
	req := newUpload(t, "/api/v1/direct/image", image)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp directEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "IMAGE_TOO_LARGE", resp.Error.Code)
}

func TestDirectImageEndpointOCRFailure(t *testing.T) {
	ocr := new(mocks.MockImageOCR)
	ocr.On("Recognize", mock.Anything, mock.Anything).
		Return("", 0.0, errors.New("tesseract crashed"))
	r := newTestRouter(ocr)

	req := newImageUpload(t, "/api/v1/direct/image")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp directEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OCR_FAILED", resp.Error.Code)
}

func TestDirectImageEndpointNoText(t *testing.T) {
	ocr := new(mocks.MockImageOCR)
	ocr.On("Recognize", mock.Anything, mock.Anything).Return("   ", 0.1, nil)
	r := newTestRouter(ocr)

	req := newImageUpload(t, "/api/v1/direct/image")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp directEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_TEXT_DETECTED", resp.Error.Code)
}
