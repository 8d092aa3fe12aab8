package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCredentials_EnvFallback(t *testing.T) {
	t.Setenv(EnvAccountID, "env-acc")
	t.Setenv(EnvAPIToken, "env-tok")

	cfg := &Config{}
	resolveCredentials(cfg)

	assert.Equal(t, "env-acc", cfg.Cloudflare.AccountID)
	assert.Equal(t, "env-tok", cfg.Cloudflare.APIToken)
}

func TestResolveCredentials_ExplicitValuesWin(t *testing.T) {
	t.Setenv(EnvAccountID, "env-acc")
	t.Setenv(EnvAPIToken, "env-tok")

	cfg := &Config{Cloudflare: &CloudflareConfig{AccountID: "cfg-acc", APIToken: "cfg-tok"}}
	resolveCredentials(cfg)

	assert.Equal(t, "cfg-acc", cfg.Cloudflare.AccountID)
	assert.Equal(t, "cfg-tok", cfg.Cloudflare.APIToken)
}

func TestResolveCredentials_EmptyWithoutEnv(t *testing.T) {
	t.Setenv(EnvAccountID, "")
	t.Setenv(EnvAPIToken, "")

	cfg := &Config{}
	resolveCredentials(cfg)

	assert.Empty(t, cfg.Cloudflare.AccountID)
	assert.Empty(t, cfg.Cloudflare.APIToken)
}
