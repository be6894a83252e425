// Package config loads typed configuration structs from environment
// variables and optional dotenv files.
//
// It is a thin layer over github.com/caarlos0/env and github.com/joho/godotenv:
// struct fields declare their variable with an `env` tag and an optional
// `envDefault`, Load fills them in, and WithPrefix namespaces every variable
// so an embedding application does not collide with the SDK.
//
// # Usage
//
//	type Config struct {
//		ConsumerKey string        `env:"CONSUMER_KEY"`
//		Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("TRACKKIT_")); err != nil {
//		return err
//	}
//
// # Error Handling
//
// Parsing failures wrap ErrParsingConfig, unreadable explicit dotenv files
// wrap ErrEnvFile. Use errors.Is to check.
package config
