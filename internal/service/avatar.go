package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/taskfolio/taskfolio-api/internal/config"
)

// ErrUnsupportedImage is returned when an uploaded avatar cannot be
// decoded as a supported image format.
var ErrUnsupportedImage = errors.New("unsupported image format")

// AvatarProcessor normalizes uploaded avatar images: decode, crop-resize
// to a fixed square, re-encode as PNG. Storing one canonical format means
// the serving endpoint never has to guess a content type.
type AvatarProcessor struct {
	dimension int
}

// NewAvatarProcessor creates an AvatarProcessor with the configured
// square dimension.
func NewAvatarProcessor(cfg config.AvatarConfig) *AvatarProcessor {
	return &AvatarProcessor{dimension: cfg.Dimension}
}

// Process decodes the uploaded image, resizes it to fill the square
// dimension, and returns the PNG-encoded result.
func (p *AvatarProcessor) Process(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	resized := imaging.Fill(img, p.dimension, p.dimension, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
