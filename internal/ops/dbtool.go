package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ToolQuery         = "query"
	ToolListTables    = "list_tables"
	ToolDescribeTable = "describe_table"
)

// Request is one line on stdin.
type Request struct {
	ID    any    `json:"id,omitempty"`
	Tool  string `json:"tool"`
	SQL   string `json:"sql,omitempty"`
	Table string `json:"table,omitempty"`
}

// Response is one line on stdout. Exactly one of Result and Error is set.
type Response struct {
	ID     any    `json:"id,omitempty"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Row = map[string]any

// Executor runs a statement in a read-only transaction.
type Executor interface {
	ReadOnly(ctx context.Context, sql string, args ...any) ([]Row, error)
}

// ======================================================
// PGX EXECUTOR
// ======================================================

type PgxExecutor struct {
	pool *pgxpool.Pool
}

func NewPgxExecutor(ctx context.Context, dsn string) (*PgxExecutor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &PgxExecutor{pool: pool}, nil
}

func (e *PgxExecutor) Close() { e.pool.Close() }

func (e *PgxExecutor) ReadOnly(ctx context.Context, sql string, args ...any) ([]Row, error) {
	tx, err := e.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

// ======================================================
// TOOLS
// ======================================================

const listTablesSQL = `SELECT table_name
FROM information_schema.tables
WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
ORDER BY table_name`

const describeTableSQL = `SELECT column_name, data_type, is_nullable = 'YES' AS nullable, column_default
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = $1
ORDER BY ordinal_position`

type Column struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`
}

type DBTool struct {
	exec Executor
}

func NewDBTool(exec Executor) *DBTool {
	return &DBTool{exec: exec}
}

// Handle runs a single request. Tool failures are reported in the response.
func (t *DBTool) Handle(ctx context.Context, req Request) Response {
	res, err := t.dispatch(ctx, req)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: res}
}

func (t *DBTool) dispatch(ctx context.Context, req Request) (any, error) {
	switch req.Tool {
	case ToolQuery:
		if strings.TrimSpace(req.SQL) == "" {
			return nil, fmt.Errorf("query: sql is required")
		}
		rows, err := t.exec.ReadOnly(ctx, req.SQL)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		if rows == nil {
			rows = []Row{}
		}
		return rows, nil

	case ToolListTables:
		rows, err := t.exec.ReadOnly(ctx, listTablesSQL)
		if err != nil {
			return nil, fmt.Errorf("list_tables: %w", err)
		}
		names := make([]string, 0, len(rows))
		for _, r := range rows {
			names = append(names, fmt.Sprint(r["table_name"]))
		}
		return names, nil

	case ToolDescribeTable:
		if req.Table == "" {
			return nil, fmt.Errorf("describe_table: table is required")
		}
		rows, err := t.exec.ReadOnly(ctx, describeTableSQL, req.Table)
		if err != nil {
			return nil, fmt.Errorf("describe_table: %w", err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("describe_table: table %q not found", req.Table)
		}
		cols := make([]Column, 0, len(rows))
		for _, r := range rows {
			col := Column{
				Name: fmt.Sprint(r["column_name"]),
				Type: fmt.Sprint(r["data_type"]),
			}
			col.Nullable, _ = r["nullable"].(bool)
			if d, ok := r["column_default"].(string); ok {
				col.Default = &d
			}
			cols = append(cols, col)
		}
		return cols, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", req.Tool)
	}
}

// Serve reads JSON requests line by line until in is exhausted or ctx is
// done. Malformed lines get an error response; blank lines are ignored.
func (t *DBTool) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var req Request
		resp := Response{}
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			resp.Error = "invalid request: " + err.Error()
		} else {
			resp = t.Handle(ctx, req)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return sc.Err()
}
