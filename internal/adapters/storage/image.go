package storage

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"invitesmanager/internal/domain"
)

type imageProcessor struct {
	maxDimension int
}

// NewImageProcessor returns an ImageProcessor that fits images into a maxDimension square,
// honors EXIF orientation and re-encodes them. PNG stays PNG, everything else becomes JPEG.
func NewImageProcessor(maxDimension int) domain.ImageProcessor {
	return &imageProcessor{maxDimension: maxDimension}
}

func (p *imageProcessor) Process(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: unsupported image: %v", domain.ErrInvalidInput, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode image: %v", domain.ErrInvalidInput, err)
	}

	b := img.Bounds()
	if p.maxDimension > 0 && (b.Dx() > p.maxDimension || b.Dy() > p.maxDimension) {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
