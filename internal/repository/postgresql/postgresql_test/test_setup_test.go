package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/odpc9/attendance-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, 4)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("failed to truncate test database: %v", err)
	}
	t.Cleanup(db.Close)
	return setup
}

// TruncateAllTables empties every table.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	for _, table := range []string{"leave_records", "travel_records", "scan_records"} {
		if _, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			return err
		}
	}
	return nil
}
