package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: AVATAR_ASSET_DIR, AVATAR_PREVIEW_SIZE, ...
const EnvPrefix = "AVATAR"

// Config holds the engine paths, loader limits and preview settings.
type Config struct {
	AssetDir          string   `mapstructure:"asset_dir"`
	Catalog           string   `mapstructure:"catalog"`
	RequiredLocations []string `mapstructure:"required_locations"`
	Workers           int      `mapstructure:"workers"`

	// Outputs of cmd/avatar. Empty disables the output.
	Output   string `mapstructure:"output"`
	Manifest string `mapstructure:"manifest"`

	Preview Preview `mapstructure:"preview"`

	LogLevel string `mapstructure:"log_level"`
	Verbose  int    `mapstructure:"verbose"`
	Quiet    bool   `mapstructure:"quiet"`
}

// Preview holds snapshot render settings.
type Preview struct {
	Size        int     `mapstructure:"size"`
	Supersample int     `mapstructure:"supersample"`
	Angle       float64 `mapstructure:"angle"` // turntable degrees, 0 faces the viewer
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"assets":    "asset_dir",
	"catalog":   "catalog",
	"required":  "required_locations",
	"workers":   "workers",
	"output":    "output",
	"manifest":  "manifest",
	"size":      "preview.size",
	"angle":     "preview.angle",
	"log-level": "log_level",
	"verbose":   "verbose",
	"quiet":     "quiet",
}

// RegisterFlags adds the config flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (toml, yaml or json)")
	fs.String("assets", "", "asset directory with models and textures")
	fs.String("catalog", "", "catalog file (default <assets>/catalog.json)")
	fs.StringSlice("required", nil, "locations that must be worn to proceed")
	fs.Int("workers", 0, "background load workers (default NumCPU)")
	fs.String("output", "", "write a WebP snapshot of the avatar to this path")
	fs.String("manifest", "", "write the detailed inventory manifest to this path")
	fs.Int("size", 0, "snapshot size in pixels")
	fs.Float64("angle", 0, "snapshot turntable angle in degrees")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.CountP("verbose", "v", "more logging (-v info, -vv debug)")
	fs.BoolP("quiet", "q", false, "log errors only")
}

// Load merges defaults, the optional config file, AVATAR_* environment
// variables and the flags in fs, in increasing priority. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("asset_dir", ".")
	v.SetDefault("preview.size", 512)
	v.SetDefault("preview.supersample", 2)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("avatar")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	c.Resolve()
	return c, nil
}

// Resolve fills derived defaults.
func (c *Config) Resolve() {
	if c.AssetDir == "" {
		c.AssetDir = "."
	}
	if c.Catalog == "" {
		c.Catalog = filepath.Join(c.AssetDir, "catalog.json")
	} else if !filepath.IsAbs(c.Catalog) && !fileExists(c.Catalog) {
		c.Catalog = filepath.Join(c.AssetDir, c.Catalog)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Preview.Size <= 0 {
		c.Preview.Size = 512
	}
	if c.Preview.Supersample <= 0 {
		c.Preview.Supersample = 2
	}
}

// Level returns the slog level: -q wins, then -v counts, then log_level.
func (c Config) Level() slog.Level {
	switch {
	case c.Quiet:
		return slog.LevelError
	case c.Verbose >= 2:
		return slog.LevelDebug
	case c.Verbose == 1:
		return slog.LevelInfo
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
