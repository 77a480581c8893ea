package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	// Plot rendering
	PlotBackend string `mapstructure:"plot_backend" yaml:"plot_backend"`
	PlotWidth   int    `mapstructure:"plot_width" yaml:"plot_width"`
	PlotHeight  int    `mapstructure:"plot_height" yaml:"plot_height"`

	MaxUploadMB int `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"listen_addr", "preview_rows", "plot_backend", "plot_width", "plot_height",
	"max_upload_mb", "log_level", "log_format",
}

// ErrUnknownKey is returned by Set for keys outside Keys.
var ErrUnknownKey = errors.New("unknown key")

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datasys"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datasys/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ./.env) into the
// process environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATASYS")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("preview_rows", 5)
	v.SetDefault("plot_backend", "gonum")
	v.SetDefault("plot_width", 480)
	v.SetDefault("plot_height", 360)
	v.SetDefault("max_upload_mb", 50)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the string form of a key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "plot_backend":
		return c.PlotBackend, nil
	case "plot_width":
		return strconv.Itoa(c.PlotWidth), nil
	case "plot_height":
		return strconv.Itoa(c.PlotHeight), nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set validates and assigns a single key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "listen_addr":
		if !strings.Contains(val, ":") {
			return fmt.Errorf("invalid listen_addr: %s (want host:port)", val)
		}
		c.ListenAddr = val
	case "preview_rows":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.PreviewRows = i
	case "plot_backend":
		switch strings.ToLower(val) {
		case "gonum":
			c.PlotBackend = "gonum"
		case "gochart", "go-chart":
			c.PlotBackend = "gochart"
		default:
			return fmt.Errorf("invalid plot_backend: %s (use gonum or gochart)", val)
		}
	case "plot_width":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.PlotWidth = i
	case "plot_height":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.PlotHeight = i
	case "max_upload_mb":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.MaxUploadMB = i
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func positiveInt(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("invalid int for %s: %v", key, val)
	}
	return i, nil
}
