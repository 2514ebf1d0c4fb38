package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier runs a read query. Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadQuery runs a SELECT and returns its result as a Table, so a roll
// stored in PostgreSQL can be merged like an uploaded CSV. Column names come
// from the result set; SQL NULL becomes a null cell. Nothing is written.
func LoadQuery(ctx context.Context, q Querier, sql string, args ...any) (*Table, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("source query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("source query: read row: %w", err)
		}
		row := make(Row, len(columns))
		for i := 0; i < len(columns) && i < len(values); i++ {
			row[i] = CellFromAny(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source query: %w", err)
	}

	return NewTable(columns, out), nil
}
