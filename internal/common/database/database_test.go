// internal/common/database/database_test.go
package database

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"disc-workers/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLite_InMemory(t *testing.T) {
	client, err := NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))
	assert.Equal(t, config.DriverSQLite, client.Driver())

	_, err = client.GetDB().ExecContext(ctx, `CREATE TABLE t (v TEXT)`)
	require.NoError(t, err)
	_, err = client.GetDB().ExecContext(ctx, `INSERT INTO t (v) VALUES ($1)`, "x")
	require.NoError(t, err)

	var count int
	require.NoError(t, client.GetDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNewSQLite_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "disc.db")

	client, err := NewSQLite(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, path, client.Path())
	assert.FileExists(t, path)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"memory", ":memory:", ":memory:?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"file", "/data/disc.db", "/data/disc.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.path))
		})
	}
}

func TestNewSQLite_PragmasOnEveryConnection(t *testing.T) {
	client, err := NewSQLite(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "disc.db")})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	db := client.GetDB()
	db.SetMaxIdleConns(3)

	conns := make([]*sql.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()

	for i, conn := range conns {
		var busyTimeout, foreignKeys int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&busyTimeout))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&foreignKeys))
		assert.Equal(t, 5000, busyTimeout, "connection %d", i)
		assert.Equal(t, 1, foreignKeys, "connection %d", i)

		var journalMode string
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&journalMode))
		assert.Equal(t, "wal", journalMode, "connection %d", i)
	}
}

func TestOpenSQL(t *testing.T) {
	client, err := OpenSQL(config.DatabaseConfig{Driver: config.DriverSQLite})
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, client.Driver())
	require.NoError(t, client.Close())

	pg, err := OpenSQL(config.DatabaseConfig{Driver: config.DriverPostgres, Postgres: config.PostgresConfig{
		Host: "localhost", Port: 5432, Database: "disc", User: "disc", SSLMode: "disable",
	}})
	require.NoError(t, err, "sql.Open does not dial")
	assert.Equal(t, config.DriverPostgres, pg.Driver())
	require.NoError(t, pg.Close())

	_, err = OpenSQL(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestElasticsearchClient_Ping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectError bool
	}{
		{"healthy", http.StatusOK, false},
		{"unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Elastic-Product", "Elasticsearch")
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, err := NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
			require.NoError(t, err)

			err = client.Ping(context.Background())
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewElasticsearch_RequiresAddress(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}
