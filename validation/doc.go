// Package validation validates configuration structs.
//
// Struct tag validation uses go-playground/validator with field names taken
// from mapstructure tags, so messages match the keys users write in config
// files. Cross-field rules that tags cannot express are collected with a
// Validator.
//
//	type Settings struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,httpurl"`
//	}
//	err := validation.Validate(settings)
//
//	v := validation.New()
//	v.Check(cert == "" || key != "", "tls.key_file", "is required with tls.cert_file")
//	err := v.Err()
package validation
