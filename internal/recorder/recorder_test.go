package recorder

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRecorderLifecycle(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()

	if err := rec.EnsureLedgerExists(ctx); err != nil {
		t.Fatalf("EnsureLedgerExists: %v", err)
	}

	applied, err := rec.IsApplied(ctx, "shop", "0001_auto")
	if err != nil || applied {
		t.Fatalf("IsApplied before record = (%v, %v)", applied, err)
	}

	if err := rec.RecordApplied(ctx, "shop", "0001_auto"); err != nil {
		t.Fatalf("RecordApplied: %v", err)
	}
	if applied, _ = rec.IsApplied(ctx, "shop", "0001_auto"); !applied {
		t.Error("IsApplied = false after RecordApplied")
	}

	if err := rec.Unapply(ctx, "shop", "0001_auto"); err != nil {
		t.Fatalf("Unapply: %v", err)
	}
	if applied, _ = rec.IsApplied(ctx, "shop", "0001_auto"); applied {
		t.Error("IsApplied = true after Unapply")
	}
}

func TestMemoryRecorderDuplicateRecordIsNoOp(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()

	for i := 0; i < 3; i++ {
		if err := rec.RecordApplied(ctx, "shop", "0001_auto"); err != nil {
			t.Fatalf("RecordApplied: %v", err)
		}
	}
	records, err := rec.AppliedMigrations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("ledger holds %d records, want 1", len(records))
	}
}

func TestMemoryRecorderOrdering(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	step := 0
	rec.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	names := []string{"0001_auto", "0002_auto", "0003_auto"}
	for _, name := range names {
		if err := rec.RecordApplied(ctx, "shop", name); err != nil {
			t.Fatal(err)
		}
	}

	records, err := rec.AppliedMigrations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(names) {
		t.Fatalf("got %d records, want %d", len(records), len(names))
	}
	for i, name := range names {
		if records[i].Name != name {
			t.Errorf("record %d = %s, want %s", i, records[i].Name, name)
		}
		if i > 0 && records[i].Applied.Before(records[i-1].Applied) {
			t.Error("records out of application order")
		}
	}
}
