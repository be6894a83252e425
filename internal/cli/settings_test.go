package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/persistence"
)

func TestLoadSettings(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "trackkit.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
consumer_key: from-file
host: https://file.example.com/xms/api/v1
persistence: cookie
log_level: debug
storage:
  backend: sqlite
  path: /tmp/from-file.db
  redis:
    url: redis://file:6379/0
`), 0o600))

	env := map[string]string{
		"TRACKKIT_CONSUMER_KEY":    "from-env",
		"TRACKKIT_APP_VERSION":     "2.1.0",
		"TRACKKIT_TIMEOUT":         "3s",
		"TRACKKIT_STORAGE_BACKEND": "redis",
	}

	tests := []struct {
		name   string
		args   []string
		env    map[string]string
		assert func(t *testing.T, s Settings)
	}{
		{
			name: "flag defaults",
			assert: func(t *testing.T, s Settings) {
				assert.Empty(t, s.ConsumerKey)
				assert.Equal(t, StorageFile, s.Storage.Backend)
				assert.Equal(t, logger.LevelNone, s.LogLevel)
			},
		},
		{
			name: "environment",
			env:  env,
			assert: func(t *testing.T, s Settings) {
				assert.Equal(t, "from-env", s.ConsumerKey)
				assert.Equal(t, "2.1.0", s.AppVersion)
				assert.Equal(t, 3*time.Second, s.Timeout)
				assert.Equal(t, StorageRedis, s.Storage.Backend)
			},
		},
		{
			name: "file overrides environment",
			env:  env,
			args: []string{"--config", configFile},
			assert: func(t *testing.T, s Settings) {
				assert.Equal(t, "from-file", s.ConsumerKey)
				assert.Equal(t, "2.1.0", s.AppVersion)
				assert.Equal(t, persistence.Cookie, s.Persistence)
				assert.Equal(t, logger.LevelDebug, s.LogLevel)
				assert.Equal(t, StorageSQLite, s.Storage.Backend)
				assert.Equal(t, "/tmp/from-file.db", s.Storage.Path)
				assert.Equal(t, "redis://file:6379/0", s.Storage.Redis.ConnectionURL)
			},
		},
		{
			name: "flags override file",
			env:  env,
			args: []string{
				"--config", configFile,
				"--consumer-key", "from-flag",
				"--persistence", "none",
				"--storage", "memory",
				"--log-level", "trace",
				"--timeout", "1s",
			},
			assert: func(t *testing.T, s Settings) {
				assert.Equal(t, "from-flag", s.ConsumerKey)
				assert.Equal(t, persistence.None, s.Persistence)
				assert.Equal(t, StorageMemory, s.Storage.Backend)
				assert.Equal(t, logger.LevelTrace, s.LogLevel)
				assert.Equal(t, time.Second, s.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			require.NoError(t, cmd.ParseFlags(tt.args))

			var opts RootOptions
			opts.ConfigFile, _ = cmd.Flags().GetString("config")
			opts.ConsumerKey, _ = cmd.Flags().GetString("consumer-key")
			opts.Persistence, _ = cmd.Flags().GetString("persistence")
			opts.Storage, _ = cmd.Flags().GetString("storage")
			opts.LogLevel, _ = cmd.Flags().GetString("log-level")
			opts.Timeout, _ = cmd.Flags().GetDuration("timeout")

			env := tt.env
			if env == nil {
				env = map[string]string{}
			}
			s, err := loadSettings(&opts, cmd, env)
			require.NoError(t, err)
			tt.assert(t, s)
		})
	}

	t.Run("invalid log level", func(t *testing.T) {
		cmd := NewRootCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--log-level", "loud"}))
		_, err := loadSettings(&RootOptions{LogLevel: "loud"}, cmd, map[string]string{})
		require.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		cmd := NewRootCommand()
		_, err := loadSettings(&RootOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}, cmd, map[string]string{})
		require.Error(t, err)
	})
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{name: "empty", want: map[string]any{}},
		{
			name:  "json values",
			pairs: []string{"n=42", "ok=true", "obj={\"a\":1}", "quoted=\"7\""},
			want:  map[string]any{"n": float64(42), "ok": true, "obj": map[string]any{"a": float64(1)}, "quoted": "7"},
		},
		{
			name:  "plain strings",
			pairs: []string{"currency=KWD", "path=/a=b", "empty="},
			want:  map[string]any{"currency": "KWD", "path": "/a=b", "empty": ""},
		},
		{name: "missing separator", pairs: []string{"novalue"}, wantErr: true},
		{name: "missing key", pairs: []string{"=x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFields(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeData(t *testing.T) {
	got, err := mergeData(`{"a":1,"b":"x"}`, []string{"b=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "y"}, got)

	_, err = mergeData(`[1,2]`, nil)
	require.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"heartbeat", "track", "page", "identity", "collector"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "consumer-key", "host", "persistence", "storage", "log-level", "log-file", "format", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}

	cmd.SetArgs([]string{"--format", "xml", "heartbeat"})
	cmd.SetOut(&discard{})
	cmd.SetErr(&discard{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
