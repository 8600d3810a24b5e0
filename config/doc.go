// Package config loads fex settings from a YAML file, a .env file and the
// process environment using Viper.
//
// # Usage
//
//	cc, err := config.LoadClientConfig()
//	client, err := httpclient.New(cc.HTTPConfig())
//
// Environment variables win over file values. Variables carrying the
// loader's prefix (FEX_ for LoadClientConfig) are bound with the prefix
// stripped, so FEX_BASE_URL fills base_url and FEX_LOGGING_LEVEL fills
// logging.level.
package config
