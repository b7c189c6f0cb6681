package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/sentinel"
	"roster/pkg/platform/tx"
)

// DefaultTable holds one row per record; position carries file order.
const DefaultTable = "person_records"

const undefinedTable = "42P01"

// PostgresStore keeps records in a PostgreSQL table. Writes replace the whole
// table inside one transaction so readers never see a partial rewrite.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// Option configures a PostgresStore.
type Option func(*PostgresStore)

// WithTable overrides the table name.
func WithTable(name string) Option {
	return func(s *PostgresStore) {
		if name != "" {
			s.table = name
		}
	}
}

// New constructs the store and creates its table when missing.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*PostgresStore, error) {
	s := &PostgresStore{db: db, table: DefaultTable}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position      INTEGER PRIMARY KEY,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			date_of_birth TEXT NOT NULL
		)`, pq.QuoteIdentifier(s.table))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.Record, error) {
	query := fmt.Sprintf(`SELECT first_name, last_name, date_of_birth FROM %s ORDER BY position`,
		pq.QuoteIdentifier(s.table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return []models.Record{}, s.mapError(err, "An error occurred: %v")
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.FirstName, &p.LastName, &p.DateOfBirth); err != nil {
			return []models.Record{}, s.mapError(err, "An error occurred: %v")
		}
		records = append(records, models.Record{Index: len(records) + 1, Person: p})
	}
	if err := rows.Err(); err != nil {
		return []models.Record{}, s.mapError(err, "An error occurred: %v")
	}
	return records, nil
}

func (s *PostgresStore) WriteAll(ctx context.Context, records []models.Record) error {
	err := tx.Run(ctx, s.db, func(ctx context.Context, t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, pq.QuoteIdentifier(s.table))); err != nil {
			return err
		}
		stmt, err := t.PrepareContext(ctx, pq.CopyIn(s.table, "position", "first_name", "last_name", "date_of_birth"))
		if err != nil {
			return err
		}
		for i, r := range records {
			if _, err := stmt.ExecContext(ctx, i+1, r.FirstName, r.LastName, r.DateOfBirth); err != nil {
				_ = stmt.Close()
				return err
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			_ = stmt.Close()
			return err
		}
		return stmt.Close()
	})
	if err != nil {
		return s.mapError(err, "An error occurred while writing to the table: %v")
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, p models.Person) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (position, first_name, last_name, date_of_birth)
		SELECT COALESCE(MAX(position), 0) + 1, $1, $2, $3 FROM %[1]s`, pq.QuoteIdentifier(s.table))
	err := tx.Run(ctx, s.db, func(ctx context.Context, t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, fmt.Sprintf(`LOCK TABLE %s IN EXCLUSIVE MODE`, pq.QuoteIdentifier(s.table))); err != nil {
			return err
		}
		_, err := t.ExecContext(ctx, query, p.FirstName, p.LastName, p.DateOfBirth)
		return err
	})
	if err != nil {
		return s.mapError(err, "An error occurred while writing to the table: %v")
	}
	return nil
}

func (s *PostgresStore) mapError(err error, format string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return dErrors.Wrap(
			fmt.Errorf("%w: %w", sentinel.ErrNotFound, err),
			dErrors.CodeNotFound,
			fmt.Sprintf("The table '%s' does not exist.", s.table),
		)
	}
	return dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf(format, err))
}
