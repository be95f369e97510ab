package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "commerce-ledger", cfg.App.Name)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "svc:orders", cfg.Platform.OrchestratorID)
	assert.Equal(t, int64(0), cfg.Platform.FeeBasisPoints)
	assert.True(t, cfg.Platform.TrackInventory)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	require.NoError(t, cfg.Validate())
}

func TestFromViper_AdminsHeredanPlataforma(t *testing.T) {
	v := viper.New()
	v.Set("PLATFORM_ADMIN", "root")
	v.Set("LEDGER_ADMIN", "ledger-admin")
	v.Set("PLATFORM_FEE_BPS", "250")
	v.Set("TREASURY_ID", "treasury")
	v.Set("STORE_DRIVER", "Postgres")

	cfg := fromViper(v)
	assert.Equal(t, "root", cfg.Platform.CatalogAdmin)
	assert.Equal(t, "ledger-admin", cfg.Platform.LedgerAdmin)
	assert.Equal(t, int64(250), cfg.Platform.FeeBasisPoints)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"comision sobre el tope", func(c *Config) { c.Platform.FeeBasisPoints = 1001; c.Platform.TreasuryID = "t" }},
		{"comision sin tesoreria", func(c *Config) { c.Platform.FeeBasisPoints = 10 }},
		{"driver desconocido", func(c *Config) { c.Store.Driver = "redis" }},
		{"sin secreto en produccion", func(c *Config) { c.App.Env = "production" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := fromViper(viper.New())
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/ledger?sslmode=disable", c.ConnectionString())
}
