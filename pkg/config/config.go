// Package config resolves the process-wide shopgpt configuration.
//
// Configuration is read once at startup from defaults, an optional TOML file,
// SHOPGPT_* environment variables and command line flags (highest
// precedence). The resulting Config is a plain value handed to the components
// that need it; nothing reads configuration ad hoc afterwards.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is where the assistant service listens by default.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultGreeting seeds interactive conversations.
	DefaultGreeting = "Hi! I can help you compare products. What are you shopping for today?"

	envPrefix = "SHOPGPT"
	dirName   = ".shopgpt"
)

// Keys, also used as flag names.
const (
	KeyBaseURL        = "base_url"
	KeyRequestTimeout = "request_timeout"
	KeyLogFile        = "log_file"
	KeyDebug          = "debug"
	KeyGreeting       = "greeting"
	KeyNoColor        = "no_color"
)

// flagNames maps config keys to their command line flag.
var flagNames = map[string]string{
	KeyBaseURL:        "base-url",
	KeyRequestTimeout: "timeout",
	KeyLogFile:        "log-file",
	KeyDebug:          "debug",
	KeyGreeting:       "greeting",
	KeyNoColor:        "no-color",
}

// Config is the resolved configuration.
type Config struct {
	BaseURL string `mapstructure:"base_url" toml:"base_url"`

	// RequestTimeout bounds a single exchange. Zero means no client side
	// timeout.
	RequestTimeout time.Duration `mapstructure:"request_timeout" toml:"request_timeout"`

	LogFile  string `mapstructure:"log_file" toml:"log_file"`
	Debug    bool   `mapstructure:"debug" toml:"debug"`
	Greeting string `mapstructure:"greeting" toml:"greeting"`
	NoColor  bool   `mapstructure:"no_color" toml:"no_color"`

	// Path of the config file that was read, empty when none.
	Source string `mapstructure:"-" toml:"-"`
}

// Dir returns ~/.shopgpt.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns ~/.shopgpt/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load resolves the configuration. path names the TOML file; when empty the
// default path is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	source, err := mergeFile(v, path)
	if err != nil {
		return Config{}, err
	}

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("could not bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyRequestTimeout, "0s")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyGreeting, DefaultGreeting)
	v.SetDefault(KeyNoColor, false)

	if dir, err := Dir(); err == nil {
		v.SetDefault(KeyLogFile, filepath.Join(dir, "shopgpt.log"))
	} else {
		v.SetDefault(KeyLogFile, filepath.Join(os.TempDir(), "shopgpt.log"))
	}
}

// mergeFile decodes the TOML file into viper. A missing default file is not
// an error; a missing explicit file is.
func mergeFile(v *viper.Viper, path string) (string, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return "", nil
		}
		path = p
	}

	settings := map[string]any{}
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("could not read config file %s: %w", path, err)
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return "", fmt.Errorf("could not merge config file %s: %w", path, err)
	}
	return path, nil
}
