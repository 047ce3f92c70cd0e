// Package integration runs the service stack against a real PostgreSQL
// started with testcontainers and migrated with the embedded schema.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/medishare/backend/internal/infrastructure/migration"
)

// server is one PostgreSQL container shared by every test in the package.
// Tests get their own database inside it.
var server struct {
	once      sync.Once
	container *tcpostgres.PostgresContainer
	admin     *gorm.DB
	dsn       *url.URL
	err       error
}

// TestDB is a freshly migrated database owned by one test
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	Name  string
}

// NewTestDB creates and migrates a new database, dropped when the test ends
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	server.once.Do(startServer)
	require.NoError(t, server.err, "Failed to start PostgreSQL container")

	name := "medishare_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	require.NoError(t, server.admin.Exec(fmt.Sprintf("CREATE DATABASE %q", name)).Error)

	dsn := *server.dsn
	dsn.Path = "/" + name
	db, err := open(dsn.String())
	require.NoError(t, err, "Failed to connect to %s", name)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = sqlDB.Close()
		if err := server.admin.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %q", name)).Error; err != nil {
			t.Logf("Warning: Failed to drop database %s: %v", name, err)
		}
	})

	return &TestDB{DB: db, SqlDB: sqlDB, Name: name}
}

func startServer() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		server.err = err
		return
	}
	server.container = container

	raw, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		server.err = err
		return
	}
	if server.dsn, err = url.Parse(raw); err != nil {
		server.err = err
		return
	}
	server.admin, server.err = open(raw)
}

// stopServer terminates the shared container; called from TestMain
func stopServer() {
	if server.container == nil {
		return
	}
	if server.admin != nil {
		if sqlDB, err := server.admin.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.container.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate postgres container: %v\n", err)
	}
}

func open(dsn string) (*gorm.DB, error) {
	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	return db, nil
}
