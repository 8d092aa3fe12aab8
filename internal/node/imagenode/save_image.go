package imagenode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/imaging"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node"
)

const SaveImageType = "SaveImage"

var (
	ErrInvalidFilenames = errors.New("filenames must be a list of strings")
	ErrInvalidFormat    = errors.New("unsupported image format")
	ErrUploadFailed     = errors.New("failed to upload image")
)

// SaveImage encodes a frame batch and stores it through the host's file
// storage backend, returning one URL per frame.
type SaveImage struct{}

func (n *SaveImage) Info() node.Info {
	return node.Info{
		Type:        SaveImageType,
		DisplayName: "Save Image",
		Category:    "image",
		Inputs: []node.InputSpec{
			{Name: "images", Type: "IMAGE", Required: true},
			{Name: "format", Type: "STRING", Default: "png"},
			{Name: "is_temp", Type: "BOOLEAN", Default: false},
		},
		Outputs:    []string{"urls"},
		OutputNode: true,
	}
}

func (n *SaveImage) Execute(ctx context.Context, host node.Host, inputs map[string]any) (map[string]any, error) {
	images, _ := inputs["images"].(imaging.Batch)
	format, _ := inputs["format"].(string)
	isTemp, _ := inputs["is_temp"].(bool)

	if format == "" {
		format = "png"
	}

	urls := make([]string, 0, len(images))
	for _, frame := range images {
		content, err := encodeFrame(frame, format)
		if err != nil {
			return nil, err
		}

		response := make(chan string)
		host.Uploader().UploadBytes(ctx, content, "."+format, isTemp, response)

		url, ok := <-response
		if !ok {
			return nil, ErrUploadFailed
		}

		urls = append(urls, url)
	}

	return map[string]any{
		"urls": urls,
	}, nil
}

func encodeFrame(frame imaging.Frame, format string) ([]byte, error) {
	var content bytes.Buffer

	img := frame.ToNRGBA()
	var err error
	switch format {
	case "png":
		err = png.Encode(&content, img)
	case "jpg", "jpeg":
		err = jpeg.Encode(&content, img, nil)
	case "gif":
		err = gif.Encode(&content, img, nil)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	if err != nil {
		return nil, err
	}

	return content.Bytes(), nil
}
