// Package sqljudge evaluates SQL submissions against an ephemeral
// in-memory database, one fresh instance per invocation.
package sqljudge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	appErr "codearena/pkg/errors"
)

// Spec describes one SQL evaluation: shared schema/seed setup, the
// test-specific mutation, and the query whose result set is captured.
type Spec struct {
	GlobalSetup string
	TestSetup   string
	Query       string
}

// Runner executes SQL evaluation specs. It is stateless: every Run opens
// its own in-memory database, so sequential runs cannot observe each
// other's writes.
type Runner struct {
	driver string
}

// NewRunner creates a Runner backed by the embedded SQLite engine.
func NewRunner() *Runner {
	return &Runner{driver: "sqlite"}
}

// Run executes globalSetup, then testSetup, then the query, and returns
// the serialized result set of the query. Any failure is a hard failure
// for the test case; the message is what the candidate sees.
func (r *Runner) Run(ctx context.Context, spec Spec) (string, error) {
	if strings.TrimSpace(spec.Query) == "" {
		return "", appErr.New(appErr.SQLJudgeFailed).WithMessage("empty SQL query")
	}

	db, err := sqlx.Open(r.driver, ":memory:")
	if err != nil {
		return "", appErr.Wrapf(err, appErr.SQLJudgeFailed, "open in-memory database: %v", err)
	}
	defer db.Close()
	// A second connection would see its own empty :memory: database.
	db.SetMaxOpenConns(1)

	if strings.TrimSpace(spec.GlobalSetup) != "" {
		if _, err := db.ExecContext(ctx, spec.GlobalSetup); err != nil {
			return "", appErr.Wrapf(err, appErr.MalformedProblemConfig, "global setup failed: %v", err)
		}
	}
	if strings.TrimSpace(spec.TestSetup) != "" {
		if _, err := db.ExecContext(ctx, spec.TestSetup); err != nil {
			return "", appErr.Wrapf(err, appErr.MalformedProblemConfig, "test setup failed: %v", err)
		}
	}

	rows, err := db.QueryxContext(ctx, spec.Query)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.SQLJudgeFailed, "query failed: %v", err)
	}
	defer rows.Close()

	return serializeRows(rows)
}

// serializeRows renders the result set as canonical comparison text:
// columns space-separated, one row per line, NULL as the literal NULL.
func serializeRows(rows *sqlx.Rows) (string, error) {
	var lines []string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return "", appErr.Wrapf(err, appErr.SQLJudgeFailed, "scan row failed: %v", err)
		}
		cols := make([]string, len(values))
		for i, v := range values {
			cols[i] = formatValue(v)
		}
		lines = append(lines, strings.Join(cols, " "))
	}
	if err := rows.Err(); err != nil {
		return "", appErr.Wrapf(err, appErr.SQLJudgeFailed, "iterate rows failed: %v", err)
	}
	return strings.Join(lines, "\n"), nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(val)
	}
}
