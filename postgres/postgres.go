// Package postgres implements the prits stores on top of PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/phbpx/prits"
	"github.com/phbpx/prits/pkg/database"
)

//go:embed migrations
var migrations embed.FS

// lib/pq errorCodeNames
// https://github.com/lib/pq/blob/master/error.go#L178
const checkViolation = "23514"

// Migrate attempts to bring the schema for db up to date with the migrations
// defined in this package.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := database.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("db status check: %w", err)
	}

	source, err := httpfs.New(http.FS(migrations), "migrations")
	if err != nil {
		return fmt.Errorf("invalid source instance: %w", err)
	}

	target, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("invalid target postgres instance, %w", err)
	}

	m, err := migrate.NewWithInstance("httpfs", source, "postgres", target)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			return err
		}
	}
	return nil
}

// validID reports whether id can name a row at all. Ids are uuid columns, so
// anything else is simply absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// checkFields names the submission field each CHECK constraint guards and
// the problem reported for it.
var checkFields = map[string][2]string{
	"service_enquiries_plan_name_check":  {"plan.name", "required"},
	"service_enquiries_plan_price_check": {"plan.price", "required"},
	"service_enquiries_plan_type_check":  {"plan.type", "required"},
	"testimonials_rating_check":          {"rating", "not between 1 and 5"},
}

// checkError turns a CHECK violation into the matching domain error. It
// returns nil for any other error, and for constraints it does not know.
func checkError(err error) error {
	var pqerr *pq.Error
	if !errors.As(err, &pqerr) || pqerr.Code != checkViolation {
		return nil
	}
	if strings.HasSuffix(pqerr.Constraint, "_status_check") {
		return prits.ErrInvalidStatus
	}
	if f, ok := checkFields[pqerr.Constraint]; ok {
		return &prits.ValidationError{Fields: map[string]string{f[0]: f[1]}}
	}
	return nil
}

// rowsAffectedOrNotFound turns a zero-row result into notFound.
func rowsAffectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
