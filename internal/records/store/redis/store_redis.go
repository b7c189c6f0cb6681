package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"roster/internal/records/models"
	"roster/internal/records/store/rows"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/sentinel"
)

// DefaultKey is the list that holds the header line followed by one CSV line
// per record.
const DefaultKey = "roster:records"

// RedisStore keeps records as CSV lines in a Redis list so that several
// server instances can share one record set.
type RedisStore struct {
	client *redis.Client
	key    string
	strict bool
}

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithKey overrides the list key.
func WithKey(key string) Option {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithStrictRows makes reads fail on malformed lines instead of skipping them.
func WithStrictRows(strict bool) Option {
	return func(s *RedisStore) {
		s.strict = strict
	}
}

// New constructs the store and seeds the list with the header line when the
// key does not exist.
func New(ctx context.Context, client *redis.Client, opts ...Option) (*RedisStore, error) {
	s := &RedisStore{client: client, key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	header, err := rows.EncodeLine(rows.Header)
	if err != nil {
		return nil, err
	}
	n, err := client.Exists(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("check records key: %w", err)
	}
	if n == 0 {
		if err := client.RPush(ctx, s.key, header).Err(); err != nil {
			return nil, fmt.Errorf("seed records key: %w", err)
		}
	}
	return s, nil
}

func (s *RedisStore) ReadAll(ctx context.Context) ([]models.Record, error) {
	n, err := s.client.Exists(ctx, s.key).Result()
	if err != nil {
		return []models.Record{}, readError(err)
	}
	if n == 0 {
		return []models.Record{}, dErrors.Wrap(
			sentinel.ErrNotFound,
			dErrors.CodeNotFound,
			fmt.Sprintf("The key '%s' does not exist.", s.key),
		)
	}

	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return []models.Record{}, readError(err)
	}
	raw, err := decode(lines)
	if err != nil {
		return []models.Record{}, readError(err)
	}
	return rows.Parse(raw, s.strict)
}

func (s *RedisStore) WriteAll(ctx context.Context, records []models.Record) error {
	values, err := encode(records)
	if err != nil {
		return writeError(err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.RPush(ctx, s.key, values...)
		return nil
	})
	if err != nil {
		return writeError(err)
	}
	return nil
}

// Append pushes one line under WATCH so a concurrent rewrite aborts it rather
// than interleaving.
func (s *RedisStore) Append(ctx context.Context, p models.Person) error {
	line, err := rows.EncodeLine(rows.Encode(p))
	if err != nil {
		return writeError(err)
	}
	header, err := rows.EncodeLine(rows.Header)
	if err != nil {
		return writeError(err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		lines, err := tx.LRange(ctx, s.key, 0, -1).Result()
		if err != nil {
			return err
		}
		raw, err := decode(lines)
		if err != nil {
			return err
		}
		headers := 0
		for _, r := range raw {
			if rows.IsHeader(r.Fields) {
				headers++
			}
		}
		if len(lines) > 0 && headers != 1 {
			return dErrors.Wrap(
				fmt.Errorf("%w: %d header rows", sentinel.ErrCorrupt, headers),
				dErrors.CodeCorrupt,
				fmt.Sprintf("The key '%s' has %d header rows; refusing to append.", s.key, headers),
			)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(lines) == 0 {
				pipe.RPush(ctx, s.key, header)
			}
			pipe.RPush(ctx, s.key, line)
			return nil
		})
		return err
	}, s.key)
	if err != nil {
		if _, ok := dErrors.From(err); ok {
			return err
		}
		return writeError(err)
	}
	return nil
}

func decode(lines []string) ([]rows.Row, error) {
	raw := make([]rows.Row, 0, len(lines))
	for i, line := range lines {
		fields, err := rows.DecodeLine(line)
		if err != nil {
			return nil, err
		}
		raw = append(raw, rows.Row{Line: i + 1, Fields: fields})
	}
	return raw, nil
}

func encode(records []models.Record) ([]any, error) {
	header, err := rows.EncodeLine(rows.Header)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(records)+1)
	values = append(values, header)
	for _, r := range records {
		line, err := rows.EncodeLine(rows.Encode(r.Person))
		if err != nil {
			return nil, err
		}
		values = append(values, line)
	}
	return values, nil
}

func readError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf("An error occurred: %v", err))
}

func writeError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf("An error occurred while writing to the store: %v", err))
}
