package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/app"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/builtin"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/server"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Start the node host server",
	RunE:  runApp,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", 8189, "Port to run the server on")
	flags.String("host", "localhost", "Host to run the server on")
	flags.String("environment", "dev", "Environment configuration")
	flags.String("filesystem-type", "local", "Filesystem type: 'local' or 's3'")

	flags.String("cf-account-id", "", "Cloudflare account id")
	flags.String("cf-api-token", "", "Cloudflare API token")

	flags.String("s3-access-key", "", "S3 access key")
	flags.String("s3-secret-key", "", "S3 secret key")
	flags.String("s3-region-name", "", "S3 region name")
	flags.String("s3-bucket-name", "", "S3 bucket name")
	flags.String("s3-folder", "", "S3 folder")
	flags.String("s3-endpoint-url", "", "S3 endpoint URL")
	flags.String("s3-vanity-url", "", "Public URL prefix for S3 files")

	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("environment", flags.Lookup("environment"))
	viper.BindPFlag("filesystem_type", flags.Lookup("filesystem-type"))
	viper.BindPFlag("cloudflare.account_id", flags.Lookup("cf-account-id"))
	viper.BindPFlag("cloudflare.api_token", flags.Lookup("cf-api-token"))
	viper.BindPFlag("s3.access_key", flags.Lookup("s3-access-key"))
	viper.BindPFlag("s3.secret_key", flags.Lookup("s3-secret-key"))
	viper.BindPFlag("s3.region_name", flags.Lookup("s3-region-name"))
	viper.BindPFlag("s3.bucket_name", flags.Lookup("s3-bucket-name"))
	viper.BindPFlag("s3.folder", flags.Lookup("s3-folder"))
	viper.BindPFlag("s3.endpoint_url", flags.Lookup("s3-endpoint-url"))
	viper.BindPFlag("s3.vanity_url", flags.Lookup("s3-vanity-url"))
}

func runApp(_ *cobra.Command, _ []string) error {
	builtin.Register()

	application, err := app.NewApp(config.GetConfig(), app.WithFileUploader(10))
	if err != nil {
		return err
	}
	defer application.Close()

	srv := server.NewServer(application.Config())
	srv.SetupRoutes(application)

	errc := make(chan error, 1)
	go func() {
		application.Logger().Info("node host started",
			zap.String("host", application.Config().Host),
			zap.Int("port", application.Config().Port))
		errc <- srv.Start()
	}()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case <-signalc:
		return srv.Stop(application.Context())
	}
}
