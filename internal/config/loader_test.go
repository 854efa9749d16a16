package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/yangaound/dbman/pkg/adapters/sqlite"
)

const sampleYAML = `
default_profile: dev

profiles:
  dev:
    driver: sqlite
    database: ./dev.db
  staging:
    driver: sqlite
    dsn: file:staging.db
    password: ${STAGING_DB_PASSWORD}
    batch_size: 500
    max_open_conns: 10
    conn_max_lifetime: 5m
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.DefaultProfile)
	assert.Equal(t, []string{"dev", "staging"}, cfg.ProfileNames())

	staging, err := cfg.Profile("staging")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", staging.Driver)
	assert.Equal(t, 500, staging.BatchSize)
	assert.Equal(t, 10, staging.MaxOpenConns)
	assert.Equal(t, "5m", staging.ConnMaxLifetime)
}

func TestLoadDefaultProfile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML), nil)
	require.NoError(t, err)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "./dev.db", p.Database)
}

func TestLoadUnknownProfile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML), nil)
	require.NoError(t, err)

	_, err = cfg.Profile("prod")
	assert.ErrorContains(t, err, `profile "prod" not found`)
}

func TestLoadExpandsCredentials(t *testing.T) {
	t.Setenv("STAGING_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeConfig(t, sampleYAML), nil)
	require.NoError(t, err)

	p, err := cfg.Profile("staging")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", p.Password)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DBMAN_PROFILES__DEV__DATABASE", "/tmp/other.db")

	cfg, err := Load(writeConfig(t, sampleYAML), nil)
	require.NoError(t, err)

	p, err := cfg.Profile("dev")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", p.Database)
}

func TestLoadEnvConfigPath(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.DefaultProfile)
}

func TestLoadProfileFlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("profile", "p", "", "")
	require.NoError(t, flags.Set("profile", "staging"))

	cfg, err := Load(writeConfig(t, sampleYAML), flags)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.DefaultProfile)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, 500, p.BatchSize)
}

func TestLoadProfileFlagUnchanged(t *testing.T) {
	// An unset --profile flag leaves default_profile alone.
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("profile", "p", "", "")

	cfg, err := Load(writeConfig(t, sampleYAML), flags)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.DefaultProfile)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadNoProfiles(t *testing.T) {
	_, err := Load(writeConfig(t, "default_profile: dev\n"), nil)
	assert.ErrorContains(t, err, "no profiles")
}

func TestSingleProfileNeedsNoDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
profiles:
  only:
    driver: sqlite
`), nil)
	require.NoError(t, err)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", p.Driver)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{
			name:    "valid",
			profile: Profile{Driver: "sqlite", ConnMaxLifetime: "1h"},
		},
		{
			name:    "missing driver",
			profile: Profile{},
			wantErr: "no driver",
		},
		{
			name:    "unknown driver",
			profile: Profile{Driver: "oracle"},
			wantErr: "unknown adapter",
		},
		{
			name:    "bad lifetime",
			profile: Profile{Driver: "sqlite", ConnMaxLifetime: "soon"},
			wantErr: "conn_max_lifetime",
		},
		{
			name:    "negative batch",
			profile: Profile{Driver: "sqlite", BatchSize: -1},
			wantErr: "batch_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestAdapterConfig(t *testing.T) {
	p := Profile{
		Driver:          "sqlite",
		Host:            "db.internal",
		Port:            5432,
		User:            "bob",
		Password:        "pw",
		Database:        "app",
		ConnMaxLifetime: "30m",
	}

	ac := p.AdapterConfig()
	assert.Equal(t, "sqlite", ac.Type)
	assert.Equal(t, "db.internal", ac.Host)
	assert.Equal(t, "bob", ac.Username)
	assert.Equal(t, float64(1800), ac.ConnMaxLifetime.Seconds())
}

func TestEffectiveBatchSize(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, Profile{}.EffectiveBatchSize())
	assert.Equal(t, 500, Profile{BatchSize: 500}.EffectiveBatchSize())
}
