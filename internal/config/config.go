package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "activities_config.yaml"
	defaultPort    = 8000
)

// Config represents the server configuration.
type Config struct {
	// Host is the listen address; empty means all interfaces.
	Host string `yaml:"host,omitempty"`
	// Port is the listen port; defaults to 8000 when omitted.
	Port int `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	// StaticDir, when set, is served under /static/.
	StaticDir string `yaml:"staticDir,omitempty"`
	// RosterFile, when set, seeds the activity roster instead of the
	// built-in Mergington defaults.
	RosterFile string `yaml:"rosterFile,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{Port: defaultPort}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoadWithEnv loads the configuration for the given environment. It looks
// for activities_config_<env>.yaml first, then activities_config.yaml, in
// the current directory and then the user's home directory. A missing file
// is not an error; the defaults apply.
func LoadWithEnv(env string) (*Config, error) {
	path, err := findConfigFile(env)
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks that configured
// paths exist.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config validation failed: staticDir %q is not a directory", cfg.StaticDir)
		}
	}
	if cfg.RosterFile != "" {
		if _, err := os.Stat(cfg.RosterFile); err != nil {
			return fmt.Errorf("config validation failed: rosterFile %q: %w", cfg.RosterFile, err)
		}
	}

	return nil
}

// findConfigFile searches for the env-specific config file, then the plain
// one, in the current directory and the user's home directory.
func findConfigFile(env string) (string, error) {
	candidates := []string{configFileName}
	if env != "" {
		candidates = []string{
			fmt.Sprintf("activities_config_%s.yaml", env),
			configFileName,
		}
	}

	dirs := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir)
	}

	for _, name := range candidates {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
