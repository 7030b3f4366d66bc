package domain

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMalformedAsset       = errors.New("malformed image asset")
	ErrNoSourceImage        = errors.New("no source image")
	ErrNoModifierSpecified  = errors.New("no modifier specified")
	ErrGenerationPending    = errors.New("generation already pending")
	ErrNoSubmission         = errors.New("no submission to retry")
)
