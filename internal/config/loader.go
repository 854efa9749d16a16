package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "dbman.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "dbman.yml"

// EnvConfigPath names the environment variable that overrides config
// file discovery.
const EnvConfigPath = "DBMAN_CONFIG"

// envPrefix is the prefix for environment overrides. A variable like
// DBMAN_PROFILES__STAGING__PASSWORD overrides profiles.staging.password.
const envPrefix = "DBMAN_"

// Load reads the config file at path. When path is empty, discovery runs:
// $DBMAN_CONFIG, then dbman.yaml/dbman.yml in the working directory and
// its parents.
//
// Precedence (highest to lowest): flags > env vars > config file.
// Environment variables use the DBMAN_ prefix, and a --profile flag (when
// flags is non-nil and the flag was set) overrides default_profile.
// ${VAR} references in credential fields are expanded.
func Load(path string, flags *pflag.FlagSet) (*File, error) {
	if path == "" {
		path = discover()
	}
	if path == "" {
		return nil, fmt.Errorf("no %s found (set %s or pass --config)", ConfigFileName, EnvConfigPath)
	}

	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"default_profile": "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 3. Environment variables (DBMAN_ prefix).
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	// 4. Flags: --profile selects the profile, overriding default_profile.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name != "profile" {
				return "", nil
			}
			return "default_profile", posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg File
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for name, p := range cfg.Profiles {
		p.DSN = os.ExpandEnv(p.DSN)
		p.User = os.ExpandEnv(p.User)
		p.Password = os.ExpandEnv(p.Password)
		cfg.Profiles[name] = p
	}

	if len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("%s defines no profiles", path)
	}
	return &cfg, nil
}

// envTransform maps DBMAN_PROFILES__STAGING__PASSWORD to
// profiles.staging.password. Double underscores separate path segments so
// that keys like batch_size stay intact.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	if s == "CONFIG" {
		// DBMAN_CONFIG is the file path override, not a config key.
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// discover finds the config file: $DBMAN_CONFIG, then the working
// directory and its parents.
func discover() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if p := findConfigFile(dir); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// findConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}

	return ""
}
