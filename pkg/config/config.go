package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Keys accepted by the config file, the environment (upper-cased, with
// envPrefix) and the CLI overrides.
const (
	KeyRootDirectory = "root_directory"
	KeyServerPort    = "server_port"
	KeyOpenBrowser   = "open_browser"
	KeyBrowserDelay  = "browser_delay"
)

const envPrefix = "LOCALFS_"

// loopbackHost is the only interface the server binds to.
const loopbackHost = "127.0.0.1"

// ErrInvalidRoot is returned by Validate when the root directory is missing or
// is not a directory.
var ErrInvalidRoot = errors.New("invalid root directory")

// Config is built once at startup and is read-only afterwards.
type Config struct {
	RootDirectory string        `koanf:"root_directory"`
	ServerHost    string        `koanf:"-"`
	ServerPort    int           `koanf:"server_port" default:"8080" validate:"min=0,max=65535"`
	OpenBrowser   bool          `koanf:"open_browser" default:"true"`
	BrowserDelay  time.Duration `koanf:"browser_delay" default:"1s"`
}

// New builds the configuration from, in increasing order of precedence, the
// struct defaults, the YAML file at configFile (skipped when empty or
// missing), LOCALFS_* environment variables and overrides, which holds the
// CLI flags that were explicitly set.
func New(configFile string, overrides map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.ServerHost = loopbackHost

	k := koanf.New(".")

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.WithStack(err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	return cfg, nil
}

// NewForTest returns a config serving root on an ephemeral port with the
// browser launch disabled.
func NewForTest(root string) *Config {
	return &Config{
		RootDirectory: root,
		ServerHost:    loopbackHost,
		ServerPort:    0,
		OpenBrowser:   false,
		BrowserDelay:  0,
	}
}

// Validate makes RootDirectory absolute and checks it is an existing
// directory, then checks the remaining fields. It is called before any
// socket is bound.
func (cfg *Config) Validate() error {
	root := cfg.RootDirectory
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.WithStack(err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrapf(ErrInvalidRoot, "%s: %v", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrInvalidRoot, "root directory does not exist: %s", abs)
		}
		return errors.Wrapf(ErrInvalidRoot, "root directory is not accessible: %s: %v", abs, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrInvalidRoot, "root path is not a directory: %s", abs)
	}
	cfg.RootDirectory = abs

	if err := validator.New().Struct(cfg); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Addr is the loopback listen address.
func (cfg *Config) Addr() string {
	return net.JoinHostPort(cfg.ServerHost, strconv.Itoa(cfg.ServerPort))
}
