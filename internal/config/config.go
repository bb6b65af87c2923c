// Package config loads CLI configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/assistant/pkg/contract"
	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

// EnvPrefix prefixes every environment override, e.g. ASSISTANT_STATE_PATH.
const EnvPrefix = "ASSISTANT"

// Config holds CLI configuration.
type Config struct {
	Product  string      `mapstructure:"product"`
	DataMode string      `mapstructure:"data_mode"`
	State    StateConfig `mapstructure:"state"`
	Log      LogConfig   `mapstructure:"log"`
	Watch    WatchConfig `mapstructure:"watch"`
}

// StateConfig locates the snapshot file.
type StateConfig struct {
	Path string `mapstructure:"path"`
	// Format is json or yaml; empty means derived from the path.
	Format string `mapstructure:"format"`
}

// LogConfig controls logging.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Verbose    bool   `mapstructure:"verbose"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// WatchConfig configures the drop-folder watcher.
type WatchConfig struct {
	Dir        string `mapstructure:"dir"`
	Pattern    string `mapstructure:"pattern"`
	Collection string `mapstructure:"collection"`
	Schedule   string `mapstructure:"schedule"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Product:  store.Erika.Name,
		DataMode: string(core.DataModeMock),
		State:    StateConfig{Path: defaultStatePath()},
		Log:      LogConfig{MaxSizeMB: 10, MaxBackups: 3},
		Watch:    WatchConfig{Pattern: "**/*", Collection: "inbox"},
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "assistant", "state.json")
}

// Load reads configuration. An empty path searches ./assistant.yaml and the
// user config directory; a missing file is not an error, an unreadable one is.
// Flags, when given, override file and environment.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("product", d.Product)
	v.SetDefault("data_mode", d.DataMode)
	v.SetDefault("state.path", d.State.Path)
	v.SetDefault("state.format", d.State.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.verbose", d.Log.Verbose)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("watch.dir", d.Watch.Dir)
	v.SetDefault("watch.pattern", d.Watch.Pattern)
	v.SetDefault("watch.collection", d.Watch.Collection)
	v.SetDefault("watch.schedule", d.Watch.Schedule)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("assistant")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "assistant"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"product":          "product",
	"data-mode":        "data_mode",
	"state":            "state.path",
	"format":           "state.format",
	"log-file":         "log.file",
	"verbose":          "log.verbose",
	"watch-dir":        "watch.dir",
	"watch-pattern":    "watch.pattern",
	"watch-collection": "watch.collection",
	"watch-schedule":   "watch.schedule",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate rejects unknown products, data modes, formats and schedules.
func (c Config) Validate() error {
	if _, ok := store.ProductByName(c.Product); !ok {
		return fmt.Errorf("unknown product %q", c.Product)
	}
	switch core.DataMode(c.DataMode) {
	case core.DataModeMock, core.DataModeLive:
	default:
		return fmt.Errorf("unknown data mode %q", c.DataMode)
	}
	switch c.State.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("unknown state format %q", c.State.Format)
	}
	if c.Watch.Schedule != "" {
		if err := contract.ValidSchedule(c.Watch.Schedule); err != nil {
			return err
		}
	}
	return nil
}

// ProductSeed returns the configured product with the configured data mode.
func (c Config) ProductSeed() store.Product {
	p, _ := store.ProductByName(c.Product)
	p.DataMode = core.DataMode(c.DataMode)
	return p
}
