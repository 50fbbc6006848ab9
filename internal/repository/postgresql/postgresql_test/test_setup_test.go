package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const schemaFile = "../../../../migrations/000001_attendance_reporting.up.sql"

// TestDatabaseSetup holds the connection to the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err, "failed to connect to test database")

	schema, err := os.ReadFile(schemaFile)
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err, "failed to apply schema")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from every table
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"export_records",
		"leave_requests",
		"attendances",
		"employees",
		"departments",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

func (s *TestDatabaseSetup) createDepartment(t *testing.T, companyID, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(),
		`INSERT INTO departments (id, company_id, name) VALUES ($1, $2, $3)`,
		id, companyID, name)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) createEmployee(t *testing.T, companyID string, departmentID *string, name, shift string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO employees (id, company_id, department_id, full_name, employee_code, attendance_shift)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, companyID, departmentID, name, "EMP-"+id[:4], shift)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) createApprovedLeave(t *testing.T, companyID, employeeID, start, end string) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO leave_requests (employee_id, company_id, start_date, end_date, status)
		VALUES ($1, $2, $3::date, $4::date, 'approved')
	`, employeeID, companyID, start, end)
	require.NoError(t, err)
}
