package imagenode

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/imaging"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node"
)

const LoadImageType = "LoadImage"

// LoadImage reads image files from disk into a frame batch, optionally
// resizing them to a common target size.
type LoadImage struct{}

func (n *LoadImage) Info() node.Info {
	return node.Info{
		Type:        LoadImageType,
		DisplayName: "Load Image",
		Category:    "image",
		Inputs: []node.InputSpec{
			{Name: "filenames", Type: "STRING_LIST", Required: true},
			{Name: "size_handling", Type: "INT", Default: float64(imaging.RequireUniform)},
			{Name: "target_size", Type: "SIZE"},
		},
		Outputs: []string{"images"},
	}
}

func (n *LoadImage) Execute(_ context.Context, _ node.Host, inputs map[string]any) (map[string]any, error) {
	filenames, err := getFilenames(inputs)
	if err != nil {
		return nil, err
	}

	images := make([]image.Image, 0, len(filenames))
	for _, filename := range filenames {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		format := strings.TrimPrefix(filepath.Ext(filename), ".")
		img, err := imaging.Decode(data, format)
		if err != nil {
			return nil, err
		}

		images = append(images, img)
	}

	batch, err := imaging.BatchFromImages(images, getSizeHandling(inputs), getTargetSize(inputs))
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"images": batch,
	}, nil
}

func getFilenames(inputs map[string]any) ([]string, error) {
	switch value := inputs["filenames"].(type) {
	case []string:
		return value, nil
	case []any:
		filenames := make([]string, 0, len(value))
		for _, item := range value {
			name, ok := item.(string)
			if !ok {
				return nil, ErrInvalidFilenames
			}
			filenames = append(filenames, name)
		}
		return filenames, nil
	default:
		return nil, ErrInvalidFilenames
	}
}

func getSizeHandling(inputs map[string]any) imaging.SizeHandling {
	switch value := inputs["size_handling"].(type) {
	case imaging.SizeHandling:
		return value
	case float64:
		return imaging.SizeHandling(value)
	case int:
		return imaging.SizeHandling(value)
	default:
		return imaging.RequireUniform
	}
}

func getTargetSize(inputs map[string]any) image.Point {
	switch value := inputs["target_size"].(type) {
	case image.Point:
		return value
	case map[string]any:
		x, _ := value["x"].(float64)
		y, _ := value["y"].(float64)
		return image.Point{X: int(x), Y: int(y)}
	default:
		return image.Point{}
	}
}
