//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestBountyvizWithMySQL tests the bountyviz CLI with a MySQL backend.
func TestBountyvizWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "bountyviz",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/bountyviz?parseTime=true", host, port.Port())

	// Set environment variables
	t.Setenv("BOUNTYVIZ_DB_BACKEND", "mysql")
	t.Setenv("BOUNTYVIZ_DB_CONNECT", connStr)

	exerciseStore(t)
}

// TestBountyvizWithPostgres tests the bountyviz CLI with a PostgreSQL backend.
func TestBountyvizWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	t.Setenv("BOUNTYVIZ_DB_BACKEND", "postgresql")
	t.Setenv("BOUNTYVIZ_DB_CONNECT", connStr)

	exerciseStore(t)
}

// exerciseStore runs the store lifecycle and a few renders against the configured backend.
func exerciseStore(t *testing.T) {
	t.Helper()
	dataset := writeDataset(t, time.Now().UTC())

	runBountyviz(t, "store", "migrate")
	runBountyviz(t, "store", "clear")

	out := runBountyviz(t, "store", "import", dataset)
	assert.Contains(t, out, "Imported 1 bounties")

	out = runBountyviz(t, "store", "status")
	assert.Contains(t, out, "Total Bounties: 1")

	out = runBountyviz(t, "render", "chord", "--output", "csv")
	assert.Contains(t, out, "funder,alice,100,86400")

	out = runBountyviz(t, "render", "sunburst", "funders", "--output", "csv")
	assert.Contains(t, out, "funder,100")

	out = runBountyviz(t, "render", "graph", "kudos", "--output", "json")
	assert.JSONEq(t, `{"nodes":[],"links":[]}`, out)

	runBountyviz(t, "store", "clear")
	out = runBountyviz(t, "store", "status")
	assert.Contains(t, out, "Total Bounties: 0")
}
