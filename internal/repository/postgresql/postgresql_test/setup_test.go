package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/migrations"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

// TestMain connects to TEST_DATABASE_URL and migrates it. Without the variable
// every test in the package is skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		fmt.Println("TEST_DATABASE_URL not set, skipping postgresql integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10})
	if err != nil {
		fmt.Printf("failed to connect to test database: %v\n", err)
		os.Exit(1)
	}

	migrator, err := database.NewMigrator(db, migrations.FS)
	if err == nil {
		err = migrator.Up(ctx)
	}
	if err != nil {
		fmt.Printf("failed to migrate test database: %v\n", err)
		db.Close()
		os.Exit(1)
	}

	testDB = db
	code := m.Run()
	db.Close()
	os.Exit(code)
}

// truncateAll empties every table the repositories write.
func truncateAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.Exec(ctx, `TRUNCATE TABLE payroll_items, payrolls, payroll_reference_counters, timesheets, users, employees CASCADE`)
	require.NoError(t, err)
}
