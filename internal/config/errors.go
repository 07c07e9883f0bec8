package config

import "errors"

var (
	errNoDatabaseDSN  = errors.New("database DSN is not configured")
	errNoTokenSignKey = errors.New("token sign key is not configured")
)
