package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshdesk_bridge/backend/internal/extract"
)

// Writer persists extraction rows into a Postgres table. The schema is
// inferred from the rows themselves (union of column names, one jsonb column
// each), so new ticket fields appearing upstream never require a migration.
type Writer struct {
	Pool  *pgxpool.Pool
	Table string
}

func New(ctx context.Context, databaseURL, table string) (*Writer, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{Pool: pool, Table: table}, nil
}

func (w *Writer) Close() {
	w.Pool.Close()
}

func (w *Writer) Ping(ctx context.Context) error {
	return w.Pool.Ping(ctx)
}

// InferColumns returns the union of keys across all rows. "id" sorts first
// and "conversations" last; everything else is alphabetical, so runs over
// different ticket sets still produce a stable column order.
func InferColumns(rows []extract.Row) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Slice(cols, func(i, j int) bool {
		return columnRank(cols[i]) < columnRank(cols[j]) ||
			(columnRank(cols[i]) == columnRank(cols[j]) && cols[i] < cols[j])
	})
	return cols
}

func columnRank(name string) int {
	switch name {
	case "id":
		return 0
	case "conversations":
		return 2
	default:
		return 1
	}
}

// tableColumns is the schema actually written. A run that matched zero
// tickets still rewrites the table, so the baseline columns every row would
// have carried are used in place of an inferred set.
func tableColumns(rows []extract.Row) []string {
	cols := InferColumns(rows)
	if len(cols) == 0 {
		return []string{"id", "conversations"}
	}
	return cols
}

func createTableSQL(table string, columns []string) string {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, pgx.Identifier{c}.Sanitize()+" jsonb")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))
}

// WriteRows replaces the target table with the given row set. Everything runs
// in one transaction: a failed run leaves no partial dataset behind, and a
// run with zero rows still replaces the previous snapshot with an empty table.
func (w *Writer) WriteRows(ctx context.Context, rows []extract.Row) (int64, error) {
	columns := tableColumns(rows)

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		record := make([]any, 0, len(columns))
		for _, col := range columns {
			v, ok := row[col]
			if !ok {
				record = append(record, nil)
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				return 0, fmt.Errorf("dataset: marshal column %q: %w", col, err)
			}
			record = append(record, b)
		}
		values = append(values, record)
	}

	var written int64
	err := w.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{w.Table}.Sanitize()); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, createTableSQL(w.Table, columns)); err != nil {
			return err
		}
		count, err := tx.CopyFrom(ctx, pgx.Identifier{w.Table}, columns, pgx.CopyFromRows(values))
		if err != nil {
			return err
		}
		written = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (w *Writer) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := w.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
