package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, ":8443", cfg.Addr)
	require.Equal(t, StorageMemory, cfg.Storage)
	require.Equal(t, 1024, cfg.MaxRecordSize)
	require.False(t, cfg.TLSEnabled())
	require.False(t, cfg.Dev)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("HEALTHREC_STORAGE", "sqlite")
	t.Setenv("HEALTHREC_SQLITE_PATH", "/tmp/from-env.db")
	t.Setenv("HEALTHREC_MAX_RECORD_SIZE", "2048")

	cfg, err := Load([]string{"--sqlite-path", "/tmp/from-flag.db"})
	require.NoError(t, err)
	require.Equal(t, StorageSQLite, cfg.Storage)
	require.Equal(t, "/tmp/from-flag.db", cfg.SQLitePath)
	require.Equal(t, 2048, cfg.MaxRecordSize)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthrec.yaml")
	body := "storage: postgres\ndsn: postgres://a:b@db:5432/hr\naddr: \":9000\"\ndev: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	require.Equal(t, StoragePostgres, cfg.Storage)
	require.Equal(t, "postgres://a:b@db:5432/hr", cfg.DSN)
	require.Equal(t, ":9000", cfg.Addr)
	require.True(t, cfg.Dev)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"--help"})
	require.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestValidate(t *testing.T) {
	base := Config{Addr: ":1", Storage: StorageMemory, MaxRecordSize: 1024}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"unknown storage":   func(c *Config) { c.Storage = "redis" },
		"postgres no dsn":   func(c *Config) { c.Storage = StoragePostgres; c.DSN = "" },
		"sqlite no path":    func(c *Config) { c.Storage = StorageSQLite; c.SQLitePath = "" },
		"zero record size":  func(c *Config) { c.MaxRecordSize = 0 },
		"cert without key":  func(c *Config) { c.TLSCert = "c.pem" },
		"empty listen addr": func(c *Config) { c.Addr = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
