// Package validation validates structs through go-playground/validator tags
// and reports failures as an *errors.AppError whose "fields" detail lists
// each failed key by its config-file name.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
package validation
