package dataset

import (
	"testing"

	"github.com/freshdesk_bridge/backend/internal/extract"
)

func TestInferColumnsUnionAndOrder(t *testing.T) {
	rows := []extract.Row{
		{"id": 1, "subject": "a", "conversations": []any{}},
		{"id": 2, "priority": 3, "conversations": []any{}},
	}
	cols := InferColumns(rows)
	want := []string{"id", "priority", "subject", "conversations"}
	if len(cols) != len(want) {
		t.Fatalf("unexpected columns: %v", cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("unexpected column order: %v", cols)
		}
	}
}

func TestInferColumnsEmpty(t *testing.T) {
	if cols := InferColumns(nil); len(cols) != 0 {
		t.Fatalf("expected no columns, got %v", cols)
	}
}

func TestTableColumnsZeroRowRunKeepsBaselineSchema(t *testing.T) {
	cols := tableColumns(nil)
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "conversations" {
		t.Fatalf("expected baseline columns for an empty run, got %v", cols)
	}
	// A zero-row run must still produce a valid replacement table.
	sql := createTableSQL("freshdesk_tickets", cols)
	if sql != `CREATE TABLE "freshdesk_tickets" ("id" jsonb, "conversations" jsonb)` {
		t.Fatalf("unexpected sql: %s", sql)
	}
}

func TestTableColumnsPrefersInferred(t *testing.T) {
	cols := tableColumns([]extract.Row{{"id": 1, "subject": "a", "conversations": []any{}}})
	if len(cols) != 3 || cols[1] != "subject" {
		t.Fatalf("unexpected columns: %v", cols)
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL("freshdesk_tickets", []string{"id", "subject"})
	if sql != `CREATE TABLE "freshdesk_tickets" ("id" jsonb, "subject" jsonb)` {
		t.Fatalf("unexpected sql: %s", sql)
	}
}
