// Package config loads dbman.yaml: named connection profiles plus
// write defaults.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/yangaound/dbman/pkg/adapter"
)

// DefaultBatchSize is the number of rows committed per transaction when a
// profile doesn't set batch_size.
const DefaultBatchSize = 128

// File is the root of dbman.yaml.
type File struct {
	// DefaultProfile names the profile used when none is given.
	DefaultProfile string `koanf:"default_profile" yaml:"default_profile,omitempty"`

	Profiles map[string]Profile `koanf:"profiles" yaml:"profiles"`
}

// Profile holds the connection settings for one database.
type Profile struct {
	Driver   string `koanf:"driver" yaml:"driver"`
	DSN      string `koanf:"dsn" yaml:"dsn,omitempty"`
	Host     string `koanf:"host" yaml:"host,omitempty"`
	Port     int    `koanf:"port" yaml:"port,omitempty"`
	User     string `koanf:"user" yaml:"user,omitempty"`
	Password string `koanf:"password" yaml:"password,omitempty"`
	Database string `koanf:"database" yaml:"database,omitempty"`
	Schema   string `koanf:"schema" yaml:"schema,omitempty"`

	// Options holds driver-specific connection parameters.
	Options map[string]string `koanf:"options" yaml:"options,omitempty"`

	// BatchSize is the number of rows per write transaction.
	BatchSize int `koanf:"batch_size" yaml:"batch_size,omitempty"`

	// Connection pool limits; zero leaves the driver default.
	MaxOpenConns    int    `koanf:"max_open_conns" yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int    `koanf:"max_idle_conns" yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime" yaml:"conn_max_lifetime,omitempty"`
}

// Validate checks that the profile names a registered driver and that
// pool settings parse.
func (p Profile) Validate() error {
	if p.Driver == "" {
		return fmt.Errorf("profile has no driver")
	}
	if !adapter.IsRegistered(p.Driver) {
		return &adapter.UnknownAdapterError{
			Type:      p.Driver,
			Available: adapter.ListAdapters(),
		}
	}
	if p.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(p.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid conn_max_lifetime %q: %w", p.ConnMaxLifetime, err)
		}
	}
	if p.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative")
	}
	return nil
}

// AdapterConfig converts the profile into an adapter connection config.
func (p Profile) AdapterConfig() adapter.Config {
	lifetime, _ := time.ParseDuration(p.ConnMaxLifetime)
	return adapter.Config{
		Type:            p.Driver,
		DSN:             p.DSN,
		Host:            p.Host,
		Port:            p.Port,
		Database:        p.Database,
		Username:        p.User,
		Password:        p.Password,
		Schema:          p.Schema,
		Options:         p.Options,
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxLifetime: lifetime,
	}
}

// EffectiveBatchSize returns the profile's batch size, or the default.
func (p Profile) EffectiveBatchSize() int {
	if p.BatchSize > 0 {
		return p.BatchSize
	}
	return DefaultBatchSize
}

// Profile returns the named profile, or the default profile when name is
// empty. A single-profile file needs no default_profile.
func (f *File) Profile(name string) (Profile, error) {
	if name == "" {
		name = f.DefaultProfile
	}
	if name == "" && len(f.Profiles) == 1 {
		for n := range f.Profiles {
			name = n
		}
	}
	if name == "" {
		return Profile{}, fmt.Errorf("no profile given and no default_profile set")
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found (have %v)", name, f.ProfileNames())
	}
	return p, nil
}

// ProfileNames returns the sorted profile names.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for n := range f.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
