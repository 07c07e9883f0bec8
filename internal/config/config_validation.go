package config

import "time"

// Defaults applied by validate when a source left a field unset.
const (
	defaultHTTPAddress    = "0.0.0.0:8080"
	defaultTokenIssuer    = "careledger"
	defaultTokenDuration  = 8 * time.Hour
	defaultResetDuration  = time.Hour
	defaultRequestTimeout = 30 * time.Second
	defaultSignedURLTTL   = 15 * time.Minute
)

// validate fills defaults for optional fields and rejects configurations
// that cannot produce a working server.
func (c *StructuredConfig) validate() error {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = defaultHTTPAddress
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
	if c.App.TokenIssuer == "" {
		c.App.TokenIssuer = defaultTokenIssuer
	}
	if c.App.TokenDuration == 0 {
		c.App.TokenDuration = defaultTokenDuration
	}
	if c.App.ResetTokenDuration == 0 {
		c.App.ResetTokenDuration = defaultResetDuration
	}
	if c.Blob.SignedURLTTL == 0 {
		c.Blob.SignedURLTTL = defaultSignedURLTTL
	}

	if c.Storage.DB.DSN == "" {
		return errNoDatabaseDSN
	}
	if c.App.TokenSignKey == "" {
		return errNoTokenSignKey
	}

	return nil
}
