package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultStoreFile is where profiles are kept unless overridden
	DefaultStoreFile = "~/.gitusers"

	envPrefix = "GIT_USER"
)

// Settings represents the resolved runtime configuration
type Settings struct {
	StorePath string // expanded path of the profiles document
	AuditFile string // expanded path of the audit log, empty when disabled
	LogLevel  string
	Verbose   bool
}

// Load resolves settings from flags, environment and defaults, in that order
// of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("store", DefaultStoreFile)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("audit_file", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Map environment variables
	_ = v.BindEnv("store", "GIT_USER_CONFIG")
	_ = v.BindEnv("verbose", "GIT_USER_VERBOSE")
	_ = v.BindEnv("log_level", "GIT_USER_LOG_LEVEL")
	_ = v.BindEnv("audit_file", "GIT_USER_AUDIT_FILE")

	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			if err := v.BindPFlag("store", f); err != nil {
				return nil, fmt.Errorf("failed to bind --config: %w", err)
			}
		}
		if f := flags.Lookup("verbose"); f != nil {
			if err := v.BindPFlag("verbose", f); err != nil {
				return nil, fmt.Errorf("failed to bind --verbose: %w", err)
			}
		}
	}

	storePath, err := ExpandHome(v.GetString("store"))
	if err != nil {
		return nil, err
	}
	auditFile, err := ExpandHome(v.GetString("audit_file"))
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		StorePath: storePath,
		AuditFile: auditFile,
		LogLevel:  v.GetString("log_level"),
		Verbose:   v.GetBool("verbose"),
	}
	if settings.Verbose {
		settings.LogLevel = "debug"
	}

	return settings, nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other paths, including "~user" forms, are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~`+string(filepath.Separator)) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
