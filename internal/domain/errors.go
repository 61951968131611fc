package domain

import "errors"

var (
	ErrEmptyText        = errors.New("text input cannot be empty")
	ErrWhitespaceText   = errors.New("text input cannot be only whitespace")
	ErrTextTooLong      = errors.New("text input too long")
	ErrEmptyImage       = errors.New("image data cannot be empty")
	ErrImageTooLarge    = errors.New("image exceeds maximum allowed size")
	ErrImageTooSmall    = errors.New("image file appears to be too small or corrupted")
	ErrUnsupportedImage = errors.New("unsupported image format")
)
