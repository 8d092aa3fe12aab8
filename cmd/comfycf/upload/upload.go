package cmd

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/app"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/imaging"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/builtin"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/imagenode"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/uploadnode"
)

var Cmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload image files to Cloudflare Images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUpload,
}

func init() {
	flags := Cmd.Flags()

	flags.String("account-id", "", "Cloudflare account id (defaults to CF_ACCOUNT_ID)")
	flags.String("api-token", "", "Cloudflare API token (defaults to CF_API_TOKEN)")
	flags.String("filename-prefix", "", "Display-name prefix for uploaded files")
	flags.Int("resize-width", 0, "Resize images to this width before uploading")
	flags.Int("resize-height", 0, "Resize images to this height before uploading")
}

func runUpload(cmd *cobra.Command, args []string) error {
	builtin.Register()

	application, err := app.NewApp(config.GetConfig())
	if err != nil {
		return err
	}
	defer application.Close()

	flags := cmd.Flags()
	accountID, _ := flags.GetString("account-id")
	apiToken, _ := flags.GetString("api-token")
	prefix, _ := flags.GetString("filename-prefix")
	width, _ := flags.GetInt("resize-width")
	height, _ := flags.GetInt("resize-height")

	sizing := imaging.RequireUniform
	if width > 0 && height > 0 {
		sizing = imaging.ResizeToTarget
	}

	loader, _ := node.Get(imagenode.LoadImageType)
	loaded, err := loader.Execute(application.Context(), application, map[string]any{
		"filenames":     args,
		"size_handling": sizing,
		"target_size":   image.Point{X: width, Y: height},
	})
	if err != nil {
		return err
	}

	uploader, _ := node.Get(uploadnode.NodeType)
	outputs, err := uploader.Execute(application.Context(), application, map[string]any{
		"images":          loaded["images"],
		"account_id":      accountID,
		"api_token":       apiToken,
		"filename_prefix": prefix,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), outputs["cloudflare_id"])
	return nil
}
