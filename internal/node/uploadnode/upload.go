package uploadnode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/cloudflare"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/imaging"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node"
)

const (
	NodeType              = "CloudflareImageUploader"
	DefaultFilenamePrefix = "ComfyUI"

	// UIOutputKey carries the raw id list alongside the declared outputs,
	// for hosts that render upload results in a UI.
	UIOutputKey = "ui"
)

// CloudflareUpload uploads a batch of frames to Cloudflare Images, one
// sequential request per frame, and collects the assigned ids. A failed
// frame is logged and skipped; the batch is never aborted and Execute never
// fails on upload errors.
type CloudflareUpload struct {
	httpClient cloudflare.HTTPClient
	baseURL    string
}

type Option func(n *CloudflareUpload)

func WithHTTPClient(client cloudflare.HTTPClient) Option {
	return func(n *CloudflareUpload) {
		n.httpClient = client
	}
}

func WithBaseURL(baseURL string) Option {
	return func(n *CloudflareUpload) {
		n.baseURL = baseURL
	}
}

func New(options ...Option) *CloudflareUpload {
	n := &CloudflareUpload{}
	for _, opt := range options {
		opt(n)
	}

	return n
}

func (n *CloudflareUpload) Info() node.Info {
	return node.Info{
		Type:        NodeType,
		DisplayName: "Cloudflare Image Uploader",
		Category:    "image",
		Inputs: []node.InputSpec{
			{Name: "images", Type: "IMAGE", Required: true},
			{Name: "account_id", Type: "STRING", Default: os.Getenv(config.EnvAccountID)},
			{Name: "api_token", Type: "STRING", Default: os.Getenv(config.EnvAPIToken)},
			{Name: "filename_prefix", Type: "STRING", Default: DefaultFilenamePrefix},
		},
		Outputs:    []string{"images", "cloudflare_id"},
		OutputNode: true,
	}
}

func (n *CloudflareUpload) Execute(ctx context.Context, host node.Host, inputs map[string]any) (map[string]any, error) {
	log := host.Logger()

	images, _ := inputs["images"].(imaging.Batch)
	accountID := stringInput(inputs, "account_id", host.Config().Cloudflare.AccountID)
	apiToken := stringInput(inputs, "api_token", host.Config().Cloudflare.APIToken)
	prefix := stringInput(inputs, "filename_prefix", host.Config().FilenamePrefix)
	if prefix == "" {
		prefix = DefaultFilenamePrefix
	}

	if accountID == "" || apiToken == "" {
		log.Warn("cloudflare credentials not provided; images will not be uploaded")
		return output(images, nil), nil
	}

	if len(images) == 0 {
		log.Warn("no images received for upload")
		return output(images, nil), nil
	}

	clientOpts := []cloudflare.Option{}
	if n.httpClient != nil {
		clientOpts = append(clientOpts, cloudflare.WithHTTPClient(n.httpClient))
	}
	if n.baseURL != "" {
		clientOpts = append(clientOpts, cloudflare.WithBaseURL(n.baseURL))
	}
	client := cloudflare.NewClient(accountID, apiToken, clientOpts...)

	ids := make([]string, 0, len(images))
	for i, frame := range images {
		data, err := frame.EncodePNG()
		if err != nil {
			log.Error("failed to encode image", zap.Int("index", i), zap.Error(err))
			continue
		}

		filename := fmt.Sprintf("%s_%d.png", prefix, i)
		id, err := client.UploadImage(ctx, filename, data)
		if err != nil {
			log.Error("error uploading to cloudflare", zap.Int("index", i), zap.Error(err))
			continue
		}

		log.Info("uploaded image to cloudflare",
			zap.String("id", id),
			zap.String("filename", filename))
		ids = append(ids, id)
	}

	return output(images, ids), nil
}

// output assembles the node result: the input batch passed through
// untouched, the encoded id value, and the raw id list for UI display.
func output(images imaging.Batch, ids []string) map[string]any {
	if ids == nil {
		ids = []string{}
	}

	return map[string]any{
		"images":        images,
		"cloudflare_id": EncodeIDs(ids),
		UIOutputKey: map[string]any{
			"cloudflare_ids": ids,
		},
	}
}

// EncodeIDs flattens collected ids into the value downstream consumers
// receive: empty string for none, the bare id for exactly one, and a JSON
// array string for several. The single-id case is deliberately not
// JSON-wrapped so consumers expecting a plain id can chain it directly.
func EncodeIDs(ids []string) string {
	switch len(ids) {
	case 0:
		return ""
	case 1:
		return ids[0]
	default:
		encoded, _ := json.Marshal(ids)
		return string(encoded)
	}
}

func stringInput(inputs map[string]any, key string, fallback string) string {
	if value, ok := inputs[key].(string); ok && value != "" {
		return value
	}

	return fallback
}
