package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrEmptyText, http.StatusBadRequest, "EMPTY_TEXT"},
		{domain.ErrWhitespaceText, http.StatusBadRequest, "WHITESPACE_TEXT"},
		{domain.ErrTextTooLong, http.StatusRequestEntityTooLarge, "TEXT_TOO_LONG"},
		{domain.ErrEmptyImage, http.StatusBadRequest, "EMPTY_IMAGE"},
		{domain.ErrImageTooLarge, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE"},
		{domain.ErrImageTooSmall, http.StatusBadRequest, "IMAGE_TOO_SMALL"},
		{domain.ErrUnsupportedImage, http.StatusBadRequest, "UNSUPPORTED_IMAGE"},
		{errors.New("anything else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code, msg := handler.MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, code)
		assert.NotEmpty(t, msg)
	}
}

func TestMapDomainErrorWrapped(t *testing.T) {
	status, code, _ := handler.MapDomainError(fmt.Errorf("validating upload: %w", domain.ErrUnsupportedImage))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNSUPPORTED_IMAGE", code)
}
