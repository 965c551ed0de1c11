package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"recordapi/internal/model"
	"recordapi/internal/repository"
	repoMocks "recordapi/internal/repository/mocks"
)

func TestRecordService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(m *repoMocks.MockCollection[model.Book])
		wantLen    int
		wantErr    bool
	}{
		{
			name: "happy path",
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {
				m.On("FindAll", mock.Anything).Return([]model.Book{{ID: "1"}, {ID: "2"}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "nil slice becomes empty",
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {
				m.On("FindAll", mock.Anything).Return([]model.Book(nil), nil)
			},
			wantLen: 0,
		},
		{
			name: "repository error",
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {
				m.On("FindAll", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockCollection[model.Book])
			svc := NewRecordService[model.Book]("book", m)
			tt.setupMocks(m)

			items, err := svc.List(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, items)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, items)
				assert.Len(t, items, tt.wantLen)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestRecordService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(m *repoMocks.MockCollection[model.Person])
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {
				m.On("FindByID", mock.Anything, "valid-id").Return(&model.Person{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {
				m.On("FindByID", mock.Anything, "missing-id").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "malformed id",
			id:   "nope",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {
				m.On("FindByID", mock.Anything, "nope").Return(nil, repository.ErrInvalidID)
			},
			wantErr: ErrInvalidID,
		},
		{
			name: "generic repository error",
			id:   "error-id",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {
				m.On("FindByID", mock.Anything, "error-id").Return(nil, errors.New("db fail"))
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockCollection[model.Person])
			svc := NewRecordService[model.Person]("person", m)
			tt.setupMocks(m)

			rec, err := svc.Get(ctx, tt.id)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.id, rec.ID)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestRecordService_Create(t *testing.T) {
	ctx := context.Background()
	in := model.Book{Title: "Dune", Price: 9.5, Category: "scifi"}

	t.Run("happy path", func(t *testing.T) {
		m := new(repoMocks.MockCollection[model.Book])
		stored := in
		stored.ID = "new-id"
		m.On("Insert", mock.Anything, in).Return(&stored, nil)

		got, err := NewRecordService[model.Book]("book", m).Create(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, "new-id", got.ID)
		assert.Equal(t, in.Title, got.Title)
		m.AssertExpectations(t)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		m := new(repoMocks.MockCollection[model.Book])
		m.On("Insert", mock.Anything, in).Return(nil, errors.New("write conflict"))

		_, err := NewRecordService[model.Book]("book", m).Create(ctx, in)

		assert.EqualError(t, err, "insert book: write conflict")
		m.AssertExpectations(t)
	})
}

func TestRecordService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		changes    map[string]any
		setupMocks func(m *repoMocks.MockCollection[model.Book])
		wantErr    error
		wantPrice  float64
	}{
		{
			name:    "partial update",
			id:      "b1",
			changes: map[string]any{"price": 20.0},
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {
				m.On("FindByIDAndUpdate", mock.Anything, "b1", map[string]any{"price": 20.0}).
					Return(&model.Book{ID: "b1", Title: "Dune", Price: 20}, nil)
			},
			wantPrice: 20,
		},
		{
			name:    "empty change set reads current record",
			id:      "b1",
			changes: map[string]any{},
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {
				m.On("FindByID", mock.Anything, "b1").Return(&model.Book{ID: "b1", Price: 7}, nil)
			},
			wantPrice: 7,
		},
		{
			name:       "validation - empty id",
			changes:    map[string]any{"price": 1.0},
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {},
			wantErr:    ErrIDRequired,
		},
		{
			name:    "not found",
			id:      "gone",
			changes: map[string]any{"price": 1.0},
			setupMocks: func(m *repoMocks.MockCollection[model.Book]) {
				m.On("FindByIDAndUpdate", mock.Anything, "gone", mock.Anything).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockCollection[model.Book])
			svc := NewRecordService[model.Book]("book", m)
			tt.setupMocks(m)

			rec, err := svc.Update(ctx, tt.id, tt.changes)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPrice, rec.Price)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(m *repoMocks.MockCollection[model.Person])
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "p1",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {
				m.On("FindByIDAndDelete", mock.Anything, "p1").Return(&model.Person{ID: "p1"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "already deleted",
			id:   "p1",
			setupMocks: func(m *repoMocks.MockCollection[model.Person]) {
				m.On("FindByIDAndDelete", mock.Anything, "p1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockCollection[model.Person])
			svc := NewRecordService[model.Person]("person", m)
			tt.setupMocks(m)

			rec, err := svc.Delete(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, rec.ID)
			}
			m.AssertExpectations(t)
		})
	}
}
