package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Option tunes a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	prefix      string
	envFiles    []string
	environment map[string]string
}

// WithPrefix prepends prefix to every env tag, e.g. "TRACKKIT_".
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvFiles loads the given dotenv files instead of the default ".env".
// Variables already present in the process environment win.
func WithEnvFiles(paths ...string) Option {
	return func(o *loadOptions) { o.envFiles = append(o.envFiles, paths...) }
}

// WithEnvironment parses from the given map instead of the process
// environment. Dotenv files are not read in this mode.
func WithEnvironment(vars map[string]string) Option {
	return func(o *loadOptions) { o.environment = vars }
}

// Load parses environment variables into v based on its `env` and
// `envDefault` struct tags.
//
// The default .env file is read once per process; its absence is not an
// error. Unlike a service-wide config, nothing is cached: every call parses
// the environment again, so an SDK can be re-initialized with new values.
//
// Example:
//
//	type Config struct {
//		ConsumerKey string `env:"CONSUMER_KEY,required"`
//		Host        string `env:"HOST" envDefault:"https://collector.example.com"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.WithPrefix("TRACKKIT_"))
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	envOpts := env.Options{Prefix: o.prefix}

	switch {
	case o.environment != nil:
		envOpts.Environment = o.environment
	case len(o.envFiles) > 0:
		if err := godotenv.Load(o.envFiles...); err != nil {
			return errors.Join(ErrEnvFile, err)
		}
	default:
		defaultEnvLoaded.Do(func() {
			// The .env file is optional.
			_ = godotenv.Load()
		})
	}

	if err := env.ParseWithOptions(v, envOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
