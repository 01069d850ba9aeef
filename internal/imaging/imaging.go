// Package imaging normalizes uploaded photo bytes into the renditions the
// rest of the pipeline works with: a small analysis JPEG for hashing and
// captioning, and a square thumbnail for gallery display.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/jdeng/goheif"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// AnalysisMaxSize bounds the longer dimension of the analysis rendition.
	AnalysisMaxSize = 256
	// AnalysisQuality is the JPEG quality for the analysis rendition. Vision
	// models tolerate heavy compression, so keep the payload small.
	AnalysisQuality = 40

	// ThumbnailSize is the edge length of the square thumbnail.
	ThumbnailSize = 300
	// ThumbnailQuality is the JPEG quality for thumbnails.
	ThumbnailQuality = 60
)

// ErrImageDecode indicates the uploaded bytes could not be decoded as any
// supported image format.
var ErrImageDecode = errors.New("failed to decode image")

// Renditions holds the processed outputs for a single uploaded photo.
type Renditions struct {
	Analysis  []byte // bounded JPEG used for hashing, captioning
	Thumbnail []byte // square cover-cropped JPEG
	Width     int    // original pixel width
	Height    int    // original pixel height
}

// IsHEIC reports whether the data starts with an ISO-BMFF box whose brand
// is HEIC. The ftyp box follows a 4-byte size, so the brand lives in
// bytes 4 through 11.
func IsHEIC(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return bytes.Contains(data[4:12], []byte("ftypheic"))
}

// Decode decodes uploaded photo bytes into an image, transcoding HEIC
// containers that the standard library cannot read.
func Decode(data []byte) (image.Image, error) {
	if IsHEIC(data) {
		img, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: heic: %v", ErrImageDecode, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

// Normalize decodes the upload once and produces both renditions.
func Normalize(data []byte) (*Renditions, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	analysis, err := encodeBounded(img, AnalysisMaxSize, AnalysisQuality)
	if err != nil {
		return nil, err
	}

	thumbnail, err := encodeCover(img, ThumbnailSize, ThumbnailQuality)
	if err != nil {
		return nil, err
	}

	return &Renditions{
		Analysis:  analysis,
		Thumbnail: thumbnail,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// encodeBounded scales the image so its longer dimension fits maxSize,
// never upscaling, and encodes it as JPEG.
func encodeBounded(img image.Image, maxSize, quality int) ([]byte, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > maxSize || height > maxSize {
		if width > height {
			newWidth = maxSize
			newHeight = int(float64(height) * float64(maxSize) / float64(width))
		} else {
			newHeight = maxSize
			newWidth = int(float64(width) * float64(maxSize) / float64(height))
		}
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeCover scales the image so the shorter dimension covers size, then
// center-crops to a size x size square and encodes it as JPEG.
func encodeCover(img image.Image, size, quality int) ([]byte, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Scale so the shorter side matches size, keeping aspect ratio.
	var scaledW, scaledH int
	if width < height {
		scaledW = size
		scaledH = int(float64(height) * float64(size) / float64(width))
	} else {
		scaledH = size
		scaledW = int(float64(width) * float64(size) / float64(height))
	}
	if scaledW < size {
		scaledW = size
	}
	if scaledH < size {
		scaledH = size
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	// Center crop.
	offsetX := (scaledW - size) / 2
	offsetY := (scaledH - size) / 2
	cropped := scaled.SubImage(image.Rect(offsetX, offsetY, offsetX+size, offsetY+size))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
