// Package csvfile persists person records in a single CSV file. Every mutation
// rewrites the whole file; the file is never held open between calls.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"roster/internal/records/models"
	"roster/internal/records/store/rows"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/sentinel"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "students.csv"

// Store is a CSV-file-backed record store.
type Store struct {
	mu     sync.RWMutex
	path   string
	strict bool
}

// Option configures a Store.
type Option func(*Store)

// WithStrictRows makes reads fail on the first malformed row instead of
// skipping it.
func WithStrictRows(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// Open returns a store for path, creating the file with only the header row
// when it does not exist yet. An existing file is left untouched.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if _, err := os.Stat(path); err == nil {
		return s, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf("An error occurred: %v", err))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, writeError(err)
		}
	}
	if err := s.WriteAll(context.Background(), nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// ReadAll loads every valid record in file order, numbered from 1.
func (s *Store) ReadAll(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return []models.Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Record{}, s.notFound(err)
		}
		return []models.Record{}, readError(err)
	}
	defer f.Close()

	raw, err := rows.ReadRows(f)
	if err != nil {
		return []models.Record{}, readError(err)
	}
	return rows.Parse(raw, s.strict)
}

// WriteAll replaces the file contents with the header followed by records in
// slice order.
func (s *Store) WriteAll(ctx context.Context, records []models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return writeError(err)
	}
	if err := writeRows(f, records); err != nil {
		_ = f.Close()
		return writeError(err)
	}
	if err := f.Close(); err != nil {
		return writeError(err)
	}
	return nil
}

// Append adds one record at the end of the file without rewriting it. A header
// is written first when the file is empty, and a missing final newline is
// restored so the new row starts on its own line. A file holding more than one
// header row is refused as corrupt. Like ReadAll, a missing file is NotFound.
func (s *Store) Append(ctx context.Context, p models.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.notFound(err)
		}
		return writeError(err)
	}
	defer f.Close()

	raw, err := rows.ReadRows(f)
	if err != nil {
		return readError(err)
	}
	headers := 0
	for _, r := range raw {
		if rows.IsHeader(r.Fields) {
			headers++
		}
	}

	if len(raw) > 0 && headers != 1 {
		return dErrors.Wrap(
			fmt.Errorf("%w: %d header rows", sentinel.ErrCorrupt, headers),
			dErrors.CodeCorrupt,
			fmt.Sprintf("The file '%s' has %d header rows; refusing to append.", s.path, headers),
		)
	}

	terminated, err := endsWithNewline(f)
	if err != nil {
		return readError(err)
	}
	if !terminated {
		if _, err := f.Write([]byte("\n")); err != nil {
			return writeError(err)
		}
	}

	w := csv.NewWriter(f)
	if len(raw) == 0 {
		if err := w.Write(rows.Header); err != nil {
			return writeError(err)
		}
	}
	if err := w.Write(rows.Encode(p)); err != nil {
		return writeError(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return writeError(err)
	}
	return nil
}

func writeRows(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rows.Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(rows.Encode(r.Person)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// endsWithNewline reports whether the last byte of f is a newline. An empty
// file counts as terminated.
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}

func (s *Store) notFound(err error) error {
	return dErrors.Wrap(
		fmt.Errorf("%w: %w", sentinel.ErrNotFound, err),
		dErrors.CodeNotFound,
		fmt.Sprintf("The file '%s' does not exist.", s.path),
	)
}

func readError(err error) error {
	return dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf("An error occurred: %v", err))
}

func writeError(err error) error {
	return dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf("An error occurred while writing to the file: %v", err))
}
