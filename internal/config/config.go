package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FilesystemLocal = "local"
	FilesystemS3    = "s3"
)

const envPrefix = "COMFYCF"

// Environment variables honored for Cloudflare credentials when the
// config file and flags leave them unset.
const (
	EnvAccountID = "CF_ACCOUNT_ID"
	EnvAPIToken  = "CF_API_TOKEN"
)

type Config struct {
	Host           string            `mapstructure:"host"`
	Port           int               `mapstructure:"port"`
	Environment    string            `mapstructure:"environment"`
	FilenamePrefix string            `mapstructure:"filename_prefix"`
	Filesystem     string            `mapstructure:"filesystem_type"`
	AssetsDir      string            `mapstructure:"assets_dir"`
	TempDir        string            `mapstructure:"temp_dir"`
	Cloudflare     *CloudflareConfig `mapstructure:"cloudflare"`
	S3             *S3Config         `mapstructure:"s3"`
}

type CloudflareConfig struct {
	AccountID string `mapstructure:"account_id"`
	APIToken  string `mapstructure:"api_token"`
}

type S3Config struct {
	Folder    string `mapstructure:"folder"`
	Region    string `mapstructure:"region_name"`
	Bucket    string `mapstructure:"bucket_name"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint_url"`
	VanityUrl string `mapstructure:"vanity_url"`
}

var config *Config

// LoadEnvAndConfigFiles loads the optional .env and config.yaml files and
// prepares viper for environment-variable overrides. Called once from the
// CLI's PersistentPreRunE before any command runs.
func LoadEnvAndConfigFiles() error {
	envFile := viper.GetString("env_file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`, `.`, `_`))
	viper.AutomaticEnv()

	configFile := viper.GetString("config_file")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".comfycf"))
		}
	}

	return LoadConfig()
}

// LoadConfig reads whatever viper has been pointed at and unmarshals it.
// A missing config file is not an error; every key has a default or an
// environment fallback.
func LoadConfig() error {
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	resolveCredentials(cfg)
	config = cfg
	return nil
}

func setDefaults() {
	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", 8189)
	viper.SetDefault("environment", "dev")
	viper.SetDefault("filename_prefix", "ComfyUI")
	viper.SetDefault("filesystem_type", FilesystemLocal)
	viper.SetDefault("assets_dir", "assets")
	viper.SetDefault("temp_dir", os.TempDir())
}

// resolveCredentials applies the CF_ACCOUNT_ID / CF_API_TOKEN environment
// fallback once, at load time. Explicit config or flag values win.
func resolveCredentials(cfg *Config) {
	if cfg.Cloudflare == nil {
		cfg.Cloudflare = &CloudflareConfig{}
	}

	if cfg.Cloudflare.AccountID == "" {
		cfg.Cloudflare.AccountID = os.Getenv(EnvAccountID)
	}
	if cfg.Cloudflare.APIToken == "" {
		cfg.Cloudflare.APIToken = os.Getenv(EnvAPIToken)
	}
}

func GetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

func IsLoaded() bool {
	return config != nil
}
