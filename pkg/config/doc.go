// Package config loads environment-based configuration structs.
//
// Configuration is declared as plain structs with env tags:
//
//	type BillingConfig struct {
//		APIKey  string        `env:"REVENUECAT_API_KEY,required"`
//		Timeout time.Duration `env:"REVENUECAT_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg BillingConfig
//	if err := config.Load(&cfg); err != nil { ... }
//
// A .env file in the working directory is loaded once, if present, before
// the first parse; real environment variables always win over .env values.
package config
