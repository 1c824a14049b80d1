package migrate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kent8192/reinhardt-web-sub034/internal/dialect"
	"github.com/kent8192/reinhardt-web-sub034/internal/logging"
	"github.com/kent8192/reinhardt-web-sub034/internal/migration"
	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
	"github.com/kent8192/reinhardt-web-sub034/internal/recorder"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

type fakeExecutor struct {
	executed []string
	failOn   string
}

func (f *fakeExecutor) Execute(_ context.Context, stmt string, _ ...any) error {
	if f.failOn != "" && strings.Contains(stmt, f.failOn) {
		return errors.New("boom")
	}
	f.executed = append(f.executed, stmt)
	return nil
}

func (f *fakeExecutor) Dialect() dialect.Dialect { return dialect.Postgres{} }

func testMigration(t *testing.T) *migration.Migration {
	t.Helper()
	tbl, err := schema.NewTable("users",
		schema.Column{Name: "id", Type: schema.Integer(), PrimaryKey: true, AutoIncrement: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	return &migration.Migration{
		ID:       uuid.New(),
		AppLabel: "shop",
		Name:     "0001_auto_20260831_1200",
		Operations: []operation.Operation{
			operation.CreateTable{Table: tbl},
			operation.AddColumn{TableName: "users", Column: schema.Column{Name: "email", Type: schema.VarChar(255)}},
		},
	}
}

func testRunner(exec *fakeExecutor, rec recorder.Recorder) *Runner {
	return NewRunner(exec, rec, logging.NewLoggerTo(io.Discard, "error"))
}

func TestApplyExecutesInOrderAndRecords(t *testing.T) {
	ctx := context.Background()
	exec := &fakeExecutor{}
	rec := recorder.NewMemoryRecorder()
	m := testMigration(t)

	if err := testRunner(exec, rec).Apply(ctx, m); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(exec.executed) != 2 {
		t.Fatalf("executed %d statements, want 2: %v", len(exec.executed), exec.executed)
	}
	if !strings.HasPrefix(exec.executed[0], "CREATE TABLE") {
		t.Errorf("first statement = %q, want CREATE TABLE", exec.executed[0])
	}
	if !strings.HasPrefix(exec.executed[1], "ALTER TABLE") {
		t.Errorf("second statement = %q, want ALTER TABLE", exec.executed[1])
	}

	applied, _ := rec.IsApplied(ctx, m.AppLabel, m.Name)
	if !applied {
		t.Error("migration not recorded after apply")
	}
}

func TestApplySkipsAlreadyApplied(t *testing.T) {
	ctx := context.Background()
	exec := &fakeExecutor{}
	rec := recorder.NewMemoryRecorder()
	m := testMigration(t)
	if err := rec.RecordApplied(ctx, m.AppLabel, m.Name); err != nil {
		t.Fatal(err)
	}

	if err := testRunner(exec, rec).Apply(ctx, m); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(exec.executed) != 0 {
		t.Errorf("already-applied migration executed statements: %v", exec.executed)
	}
}

func TestApplyChecksDependencies(t *testing.T) {
	ctx := context.Background()
	exec := &fakeExecutor{}
	rec := recorder.NewMemoryRecorder()
	m := testMigration(t)
	m.Dependencies = []migration.Dependency{{AppLabel: "shop", Name: "0000_initial"}}

	err := testRunner(exec, rec).Apply(ctx, m)
	if !errors.Is(err, ErrDependencyNotApplied) {
		t.Fatalf("Apply = %v, want ErrDependencyNotApplied", err)
	}
	if len(exec.executed) != 0 {
		t.Errorf("statements ran despite missing dependency: %v", exec.executed)
	}

	// Satisfy the dependency and retry.
	if err := rec.RecordApplied(ctx, "shop", "0000_initial"); err != nil {
		t.Fatal(err)
	}
	if err := testRunner(exec, rec).Apply(ctx, m); err != nil {
		t.Fatalf("Apply after dependency: %v", err)
	}
}

func TestApplyFailureLeavesUnrecorded(t *testing.T) {
	ctx := context.Background()
	exec := &fakeExecutor{failOn: "ALTER TABLE"}
	rec := recorder.NewMemoryRecorder()
	m := testMigration(t)

	if err := testRunner(exec, rec).Apply(ctx, m); err == nil {
		t.Fatal("Apply succeeded despite statement failure")
	}
	applied, _ := rec.IsApplied(ctx, m.AppLabel, m.Name)
	if applied {
		t.Error("failed migration marked applied")
	}
}

func TestRollbackReversesInReverseOrder(t *testing.T) {
	ctx := context.Background()
	exec := &fakeExecutor{}
	rec := recorder.NewMemoryRecorder()
	m := testMigration(t)
	if err := rec.RecordApplied(ctx, m.AppLabel, m.Name); err != nil {
		t.Fatal(err)
	}

	if err := testRunner(exec, rec).Rollback(ctx, m); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if len(exec.executed) != 2 {
		t.Fatalf("executed %d statements, want 2: %v", len(exec.executed), exec.executed)
	}
	// Last operation reversed first: drop the added column, then the table.
	if !strings.Contains(exec.executed[0], "DROP COLUMN") {
		t.Errorf("first rollback statement = %q, want DROP COLUMN", exec.executed[0])
	}
	if !strings.HasPrefix(exec.executed[1], "DROP TABLE") {
		t.Errorf("second rollback statement = %q, want DROP TABLE", exec.executed[1])
	}

	applied, _ := rec.IsApplied(ctx, m.AppLabel, m.Name)
	if applied {
		t.Error("ledger record survived rollback")
	}
}

func TestRollbackRequiresApplied(t *testing.T) {
	ctx := context.Background()
	exec := &fakeExecutor{}
	rec := recorder.NewMemoryRecorder()

	err := testRunner(exec, rec).Rollback(ctx, testMigration(t))
	if !errors.Is(err, ErrNotApplied) {
		t.Fatalf("Rollback = %v, want ErrNotApplied", err)
	}
	if len(exec.executed) != 0 {
		t.Errorf("statements ran for an unapplied migration: %v", exec.executed)
	}
}
