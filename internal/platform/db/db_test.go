package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/pledge/internal/models"
	cfgpkg "github.com/fatflowers/pledge/pkg/config"
)

func TestDialector(t *testing.T) {
	d, err := Dialector(cfgpkg.DBConfig{Driver: "postgres", DSN: "postgres://localhost/x"})
	require.NoError(t, err)
	require.Equal(t, "postgres", d.Name())

	d, err = Dialector(cfgpkg.DBConfig{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	require.Equal(t, "sqlite", d.Name())

	_, err = Dialector(cfgpkg.DBConfig{Driver: "mysql"})
	require.Error(t, err)
}

func TestNewDB_EmptyDSN(t *testing.T) {
	_, err := NewDB(zap.NewNop().Sugar(), &cfgpkg.Config{Database: cfgpkg.DBConfig{Driver: "sqlite"}})
	require.Error(t, err)
}

func TestNewDB_SqliteAutoMigrate(t *testing.T) {
	cfg := &cfgpkg.Config{
		Env:      cfgpkg.EnvDev,
		Database: cfgpkg.DBConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "pledge.db")},
	}
	l := zap.NewNop().Sugar()
	gdb, err := NewDB(l, cfg)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(l, gdb))

	require.True(t, gdb.Migrator().HasTable(&models.Payment{}))
	require.True(t, gdb.Migrator().HasTable(&models.PaymentTransaction{}))
	require.True(t, gdb.Migrator().HasIndex(&models.PaymentTransaction{}, "unique_payment_id_sequence"))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
