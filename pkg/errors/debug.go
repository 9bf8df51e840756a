package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-friendly view of an error chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	d.PGCode, d.PGConstraint, d.PGTable, d.PGDetail, d.PGMessage = postgresDetails(err)
	return d
}

// Fields flattens the dump for structured loggers, skipping empty pg values.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	for key, value := range map[string]string{
		"pg_code":       d.PGCode,
		"pg_constraint": d.PGConstraint,
		"pg_table":      d.PGTable,
		"pg_detail":     d.PGDetail,
		"pg_message":    d.PGMessage,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}

// PostgresCode returns the SQLSTATE carried by a pgx or lib/pq error, if any.
func PostgresCode(err error) string {
	code, _, _, _, _ := postgresDetails(err)
	return code
}

func postgresDetails(err error) (code, constraint, table, detail, message string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName, pgxErr.Detail, pgxErr.Message
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Table, pqErr.Detail, pqErr.Message
	}
	return "", "", "", "", ""
}
