package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	run "github.com/user2862486/comfy-cloudflare-uploader/cmd/comfycf/run"
	upload "github.com/user2862486/comfy-cloudflare-uploader/cmd/comfycf/upload"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
)

var Cmd = &cobra.Command{
	Use:   "comfycf",
	Short: "Cloudflare Images uploader for image-generation pipelines",
	Long:  "Runs a batch image uploader node, either as a standalone host server or as a one-shot CLI upload",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		return config.LoadEnvAndConfigFiles()
	},
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	Cmd.AddCommand(run.Cmd, upload.Cmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}
