package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const (
	// PathEnv overrides the default settings file location.
	PathEnv = "STEAMCLI_CONFIG"
	// DefaultPath is used when neither --config nor PathEnv is given.
	DefaultPath = "resources.ini"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing settings file, section, key or
// environment variable.
type ConfigurationError struct {
	Section string
	Key     string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Section != "" && e.Key != "":
		return fmt.Sprintf("configuration error: [%s] %s: %s", e.Section, e.Key, e.Reason)
	case e.Section != "":
		return fmt.Sprintf("configuration error: [%s]: %s", e.Section, e.Reason)
	default:
		return "configuration error: " + e.Reason
	}
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Getter is the only view of the settings that components receive.
type Getter interface {
	Get(section, key string) (string, error)
}

// File is a settings file read once at startup.
type File struct {
	path string
	ini  *ini.File
}

// Load reads the settings file at path. A missing file is fatal: every
// endpoint, selector and help string lives there.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("settings file %q does not exist", path)}
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to parse settings file %q: %v", path, err)}
	}

	return &File{path: path, ini: cfg}, nil
}

// Path returns the file the settings were read from.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(section, key string) (string, error) {
	sec, err := f.ini.GetSection(section)
	if err != nil {
		return "", &ConfigurationError{Section: section, Reason: "section not found"}
	}
	if !sec.HasKey(key) {
		return "", &ConfigurationError{Section: section, Key: key, Reason: "key not found"}
	}
	return sec.Key(key).String(), nil
}

// ResolvePath picks the settings file: explicit flag, then PathEnv, then
// DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(PathEnv); env != "" {
		return env
	}
	return DefaultPath
}

// LoadEnv loads a .env file if one exists, but doesn't fail if it doesn't
// (the key could be a real environment variable).
func LoadEnv(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// APIKey resolves the deal-aggregation key from the environment variable
// named in [IsThereAnyDealAPI] env_var.
func APIKey(g Getter) (string, error) {
	envVar, err := g.Get(SectionITAD, KeyEnvVar)
	if err != nil {
		return "", err
	}

	key, ok := os.LookupEnv(envVar)
	if !ok || strings.TrimSpace(key) == "" {
		return "", &ConfigurationError{Reason: fmt.Sprintf("environment variable %s is not set", envVar)}
	}
	return key, nil
}
