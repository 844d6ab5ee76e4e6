package services

import "errors"

var (
	ErrMissingPriceColumn = errors.New("csv must contain a 'price' column")
	ErrUnsupportedImage   = errors.New("unsupported image (jpeg or png expected)")
	ErrEmptyPrompt        = errors.New("question is empty")
	ErrImageTooLarge      = errors.New("image dimensions too large")
)
