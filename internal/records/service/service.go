package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"roster/internal/records/metrics"
	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
)

// User-facing messages for record-number failures.
const (
	MsgNoRecordsToDelete = "No records to delete."
	MsgNoRecordsToUpdate = "No records to update."
	MsgInvalidNumber     = "Invalid record number. Please enter a valid number."
)

// Store is the whole-collection persistence contract. WriteAll replaces the
// stored records with the given slice in order; Index values are ignored.
type Store interface {
	ReadAll(ctx context.Context) ([]models.Record, error)
	WriteAll(ctx context.Context, records []models.Record) error
}

// Appender is implemented by stores that can add one record without a full
// rewrite.
type Appender interface {
	Append(ctx context.Context, p models.Person) error
}

// Service implements the record operations on top of a Store. Mutations are
// serialised so each read-modify-write cycle is atomic within the process.
// Input is validated by the caller.
type Service struct {
	store          Store
	mu             sync.Mutex
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	appendOnCreate bool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithAppendOnCreate makes Create use the store's Appender when it has one.
func WithAppendOnCreate(enabled bool) Option {
	return func(s *Service) {
		s.appendOnCreate = enabled
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("roster/records")
	}
	return s
}

// Create adds p at the end of the record list.
func (s *Service) Create(ctx context.Context, p models.Person) (err error) {
	ctx, done := s.begin(ctx, "create")
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if appender, ok := s.store.(Appender); ok && s.appendOnCreate {
		if err := appender.Append(ctx, p); err != nil {
			return storeError(err)
		}
		if s.metrics != nil {
			if records, readErr := s.store.ReadAll(ctx); readErr == nil {
				s.metrics.SetRecords(len(records))
			}
		}
		s.logger.InfoContext(ctx, "record created", "mode", "append")
		return nil
	}

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return storeError(err)
	}
	records = append(records, models.Record{Index: len(records) + 1, Person: p})
	if err := s.store.WriteAll(ctx, records); err != nil {
		return storeError(err)
	}
	s.metrics.SetRecords(len(records))
	s.logger.InfoContext(ctx, "record created", "index", len(records))
	return nil
}

// Delete removes the record at 1-based position n. Later records shift down.
func (s *Service) Delete(ctx context.Context, n int) (err error) {
	ctx, done := s.begin(ctx, "delete", attribute.Int("record.index", n))
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return storeError(err)
	}
	if err := checkPosition(records, n, MsgNoRecordsToDelete); err != nil {
		return err
	}

	remaining := make([]models.Record, 0, len(records)-1)
	remaining = append(remaining, records[:n-1]...)
	remaining = append(remaining, records[n:]...)
	if err := s.store.WriteAll(ctx, models.Renumber(remaining)); err != nil {
		return storeError(err)
	}
	s.metrics.SetRecords(len(remaining))
	s.logger.InfoContext(ctx, "record deleted", "index", n)
	return nil
}

// Update replaces all three fields of the record at 1-based position n.
func (s *Service) Update(ctx context.Context, n int, p models.Person) (err error) {
	ctx, done := s.begin(ctx, "update", attribute.Int("record.index", n))
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return storeError(err)
	}
	if err := checkPosition(records, n, MsgNoRecordsToUpdate); err != nil {
		return err
	}

	records[n-1].Person = p
	if err := s.store.WriteAll(ctx, records); err != nil {
		return storeError(err)
	}
	s.logger.InfoContext(ctx, "record updated", "index", n)
	return nil
}

// List returns every record in store order. The slice is never nil, even
// when an error is returned.
func (s *Service) List(ctx context.Context) (records []models.Record, err error) {
	ctx, done := s.begin(ctx, "list")
	defer func() { done(err) }()

	records, err = s.store.ReadAll(ctx)
	if err != nil {
		return []models.Record{}, storeError(err)
	}
	if records == nil {
		records = []models.Record{}
	}
	s.metrics.SetRecords(len(records))
	return records, nil
}

// Count returns the number of valid records.
func (s *Service) Count(ctx context.Context) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Service) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "records."+operation, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.DebugContext(ctx, "record operation failed",
				"operation", operation,
				"code", dErrors.CodeOf(err),
				"error", err,
			)
		}
		span.End()
		s.metrics.ObserveOperation(operation, err, start)
	}
}

func checkPosition(records []models.Record, n int, emptyMsg string) error {
	if len(records) == 0 {
		return dErrors.New(dErrors.CodeOutOfRange, emptyMsg)
	}
	if n < 1 || n > len(records) {
		return dErrors.New(dErrors.CodeOutOfRange, MsgInvalidNumber)
	}
	return nil
}

// storeError passes coded errors through and classifies anything else as an
// I/O failure.
func storeError(err error) error {
	if _, ok := dErrors.From(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeIO, fmt.Sprintf("An error occurred: %v", err))
}
