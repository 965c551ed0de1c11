package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"recordapi/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrInvalidID  = errors.New("invalid id")
	ErrNotFound   = errors.New("record not found")
)

// RecordService defines the use cases for one kind of record.
type RecordService[T any] interface {
	// List returns every record. It never returns a nil slice on success.
	List(ctx context.Context) ([]T, error)

	// Get returns a single record by its ID.
	Get(ctx context.Context, id string) (*T, error)

	// Create persists rec and returns it with its assigned ID.
	Create(ctx context.Context, rec T) (*T, error)

	// Update applies the given field changes and returns the record after the update.
	// An empty change set returns the current record.
	Update(ctx context.Context, id string, changes map[string]any) (*T, error)

	// Delete removes a record and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*T, error)
}

// recordService is a concrete implementation of RecordService.
type recordService[T any] struct {
	kind   string
	coll   repository.Collection[T]
	tracer trace.Tracer
}

// NewRecordService constructs a RecordService for records of the given kind (e.g. "book").
func NewRecordService[T any](kind string, coll repository.Collection[T]) RecordService[T] {
	return &recordService[T]{
		kind:   kind,
		coll:   coll,
		tracer: otel.Tracer("recordapi/internal/service"),
	}
}

func (s *recordService[T]) List(ctx context.Context) ([]T, error) {
	ctx, span := s.start(ctx, "List", "")
	defer span.End()

	items, err := s.coll.FindAll(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if items == nil {
		items = []T{}
	}
	span.SetAttributes(attribute.Int("record.count", len(items)))
	return items, nil
}

func (s *recordService[T]) Get(ctx context.Context, id string) (*T, error) {
	ctx, span := s.start(ctx, "Get", id)
	defer span.End()

	if id == "" {
		return nil, s.fail(span, ErrIDRequired)
	}
	rec, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return rec, nil
}

func (s *recordService[T]) Create(ctx context.Context, rec T) (*T, error) {
	ctx, span := s.start(ctx, "Create", "")
	defer span.End()

	stored, err := s.coll.Insert(ctx, rec)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("insert %s: %w", s.kind, err))
	}
	return stored, nil
}

func (s *recordService[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	ctx, span := s.start(ctx, "Update", id)
	defer span.End()

	if id == "" {
		return nil, s.fail(span, ErrIDRequired)
	}
	span.SetAttributes(attribute.Int("record.changes", len(changes)))

	var (
		rec *T
		err error
	)
	if len(changes) == 0 {
		rec, err = s.coll.FindByID(ctx, id)
	} else {
		rec, err = s.coll.FindByIDAndUpdate(ctx, id, changes)
	}
	if err != nil {
		return nil, s.fail(span, err)
	}
	return rec, nil
}

func (s *recordService[T]) Delete(ctx context.Context, id string) (*T, error) {
	ctx, span := s.start(ctx, "Delete", id)
	defer span.End()

	if id == "" {
		return nil, s.fail(span, ErrIDRequired)
	}
	rec, err := s.coll.FindByIDAndDelete(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return rec, nil
}

func (s *recordService[T]) start(ctx context.Context, op, id string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("record.kind", s.kind)}
	if id != "" {
		attrs = append(attrs, attribute.String("record.id", id))
	}
	return s.tracer.Start(ctx, s.kind+"."+op, trace.WithAttributes(attrs...))
}

// fail records err on the span and translates repository sentinels into service sentinels.
func (s *recordService[T]) fail(span trace.Span, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		err = ErrNotFound
	case errors.Is(err, repository.ErrInvalidID):
		err = ErrInvalidID
	}
	if !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
