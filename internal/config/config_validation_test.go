package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalConfig() *StructuredConfig {
	return &StructuredConfig{
		App:     App{TokenSignKey: "secret"},
		Storage: Storage{DB: DB{DSN: "postgres://localhost:5432/careledger"}},
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := minimalConfig()

	require.NoError(t, cfg.validate())

	assert.Equal(t, defaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, defaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, defaultTokenIssuer, cfg.App.TokenIssuer)
	assert.Equal(t, defaultTokenDuration, cfg.App.TokenDuration)
	assert.Equal(t, defaultResetDuration, cfg.App.ResetTokenDuration)
	assert.Equal(t, defaultSignedURLTTL, cfg.Blob.SignedURLTTL)
}

func TestValidate_KeepsExplicitValues(t *testing.T) {
	cfg := minimalConfig()
	cfg.Server.HTTPAddress = "127.0.0.1:9090"
	cfg.App.TokenDuration = 2 * time.Hour

	require.NoError(t, cfg.validate())

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
}

func TestValidate_RequiresDatabaseDSN(t *testing.T) {
	cfg := minimalConfig()
	cfg.Storage.DB.DSN = ""

	assert.ErrorIs(t, cfg.validate(), errNoDatabaseDSN)
}

func TestValidate_RequiresTokenSignKey(t *testing.T) {
	cfg := minimalConfig()
	cfg.App.TokenSignKey = ""

	assert.ErrorIs(t, cfg.validate(), errNoTokenSignKey)
}
