package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/bmp"
)

// SizeHandling controls how a batch built from arbitrary images deals with
// mismatched dimensions.
type SizeHandling int

const (
	// RequireUniform rejects batches whose images differ in size.
	RequireUniform SizeHandling = iota
	// ResizeToTarget scales every image to the target size.
	ResizeToTarget
)

var (
	ErrUniformSize         = errors.New("images must have uniform size")
	ErrInvalidSizeHandling = errors.New("invalid size handling")
)

// Decode parses raw image bytes in the named format.
func Decode(data []byte, format string) (image.Image, error) {
	switch format {
	case "bmp":
		return bmp.Decode(bytes.NewReader(data))
	case "png":
		return png.Decode(bytes.NewReader(data))
	case "jpg", "jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	case "gif":
		return gif.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
}

// BatchFromImages builds an ordered batch from decoded images, applying the
// requested size handling. Order is preserved.
func BatchFromImages(images []image.Image, sizing SizeHandling, target image.Point) (Batch, error) {
	switch sizing {
	case RequireUniform:
		if !hasUniformSize(images) {
			return nil, ErrUniformSize
		}
	case ResizeToTarget:
		resized := make([]image.Image, len(images))
		for i, img := range images {
			resized[i] = transform.Resize(img, target.X, target.Y, transform.Linear)
		}
		images = resized
	default:
		return nil, ErrInvalidSizeHandling
	}

	batch := make(Batch, 0, len(images))
	for _, img := range images {
		batch = append(batch, FromImage(img))
	}

	return batch, nil
}

func hasUniformSize(images []image.Image) bool {
	if len(images) == 0 {
		return true
	}

	first := images[0].Bounds().Size()
	for _, img := range images[1:] {
		if img.Bounds().Size() != first {
			return false
		}
	}

	return true
}
