package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/trackkit"
	"github.com/dmitrymomot/trackkit/pkg/config"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/persistence"
	"github.com/dmitrymomot/trackkit/pkg/redis"
)

// Settings is the CLI configuration: the SDK config plus where the CLI
// keeps its local storage and cookies.
type Settings struct {
	trackkit.Config `yaml:",inline"`
	Storage         StorageSettings `yaml:"storage" envPrefix:"STORAGE_"`
}

// StorageSettings selects the local storage backend.
type StorageSettings struct {
	Backend   string       `env:"BACKEND" yaml:"backend"`
	Path      string       `env:"PATH" yaml:"path"`
	CookieJar string       `env:"COOKIE_JAR" yaml:"cookie_jar"`
	Redis     redis.Config `yaml:"redis"`
}

// loadSettings merges environment, config file and flags, in that order.
func loadSettings(opts *RootOptions, cmd *cobra.Command, env map[string]string) (Settings, error) {
	var s Settings
	loadOpts := []config.Option{config.WithPrefix(trackkit.EnvPrefix)}
	if env != nil {
		loadOpts = append(loadOpts, config.WithEnvironment(env))
	}
	if err := config.Load(&s, loadOpts...); err != nil {
		return Settings{}, err
	}

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config file %s: %w", opts.ConfigFile, err)
		}
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("consumer-key", func() { s.ConsumerKey = opts.ConsumerKey })
	set("host", func() { s.Host = opts.Host })
	set("app-version", func() { s.AppVersion = opts.AppVersion })
	set("persistence", func() { s.Persistence = persistence.Backend(opts.Persistence) })
	set("prefix", func() { s.PersistenceKeyPrefix = opts.KeyPrefix })
	set("storage-path", func() { s.Storage.Path = opts.StoragePath })
	set("redis-url", func() { s.Storage.Redis.ConnectionURL = opts.RedisURL })
	set("timeout", func() { s.Timeout = opts.Timeout })
	if flags.Changed("storage") || s.Storage.Backend == "" {
		s.Storage.Backend = opts.Storage
	}
	if flags.Changed("log-level") {
		lvl, err := logger.ParseLevel(opts.LogLevel)
		if err != nil {
			return Settings{}, err
		}
		s.LogLevel = lvl
	}
	return s, nil
}
