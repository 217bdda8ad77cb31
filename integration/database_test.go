//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSrnavWithMySQL tests the srnav CLI with a MySQL record store.
func TestSrnavWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "srnav",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/srnav?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("SRNAV_STORE_BACKEND", "mysql")
	_ = os.Setenv("SRNAV_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("SRNAV_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("SRNAV_STORE_DB_CONNECT") }()

	runStoreLifecycle(t)
}

// TestSrnavWithPostgres tests the srnav CLI with a PostgreSQL record store.
func TestSrnavWithPostgres(t *testing.T) {
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
	_ = os.Setenv("SRNAV_STORE_BACKEND", "postgresql")
	_ = os.Setenv("SRNAV_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("SRNAV_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("SRNAV_STORE_DB_CONNECT") }()

	runStoreLifecycle(t)
}

// runStoreLifecycle exercises the full store flow against whatever backend
// the environment points at: clear, import, search, gather, status.
func runStoreLifecycle(t *testing.T) {
	recordsPath := writeSampleRecords(t)

	// Run srnav records clear
	err := runSrnavCommand(t, "records", "clear")
	require.NoError(t, err)

	// Run srnav records import
	err = runSrnavCommand(t, "records", "import", recordsPath)
	require.NoError(t, err)

	// Run srnav sr search against the stored records
	err = runSrnavCommand(t, "sr", "결제 모듈 개선", "--system", "Billing", "--limit", "5")
	require.NoError(t, err)

	// Run srnav incidents search
	err = runSrnavCommand(t, "incidents", "결제 모듈 개선", "--system", "Billing")
	require.NoError(t, err)

	// Run srnav gather
	err = runSrnavCommand(t, "gather", "결제 모듈 개선", "--components", "payment-gateway")
	require.NoError(t, err)

	// Run srnav records status
	err = runSrnavCommand(t, "records", "status")
	require.NoError(t, err)

	// Run srnav records migrate
	err = runSrnavCommand(t, "records", "migrate")
	require.NoError(t, err)
}
