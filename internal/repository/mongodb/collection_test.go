package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"recordapi/internal/model"
	"recordapi/internal/repository"
)

func TestCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	oid := primitive.NewObjectID()

	mt.Run("insert assigns id", func(mt *mtest.T) {
		people := NewCollection[model.Person](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := people.Insert(ctx, model.Person{Firstname: "Ada", Lastname: "Lovelace"})

		require.NoError(mt, err)
		assert.Len(mt, got.ID, 24)
		assert.Equal(mt, "Ada", got.Firstname)
		assert.Equal(mt, "Lovelace", got.Lastname)
	})

	mt.Run("insert error", func(mt *mtest.T) {
		people := NewCollection[model.Person](mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		got, err := people.Insert(ctx, model.Person{Firstname: "Ada", Lastname: "Lovelace"})

		assert.Error(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("find all", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)
		first := mtest.CreateCursorResponse(1, "dbooks.books", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid}, {Key: "title", Value: "Dune"}, {Key: "price", Value: 9.5}, {Key: "category", Value: "scifi"},
		})
		second := mtest.CreateCursorResponse(0, "dbooks.books", mtest.NextBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Emma"}, {Key: "price", Value: 3.0}, {Key: "category", Value: "classic"},
		})
		mt.AddMockResponses(first, second)

		got, err := books.FindAll(ctx)

		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, oid.Hex(), got[0].ID)
		assert.Equal(mt, "Emma", got[1].Title)
	})

	mt.Run("find all empty", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "dbooks.books", mtest.FirstBatch))

		got, err := books.FindAll(ctx)

		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "dbooks.books", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid}, {Key: "title", Value: "Dune"},
		}))

		got, err := books.FindByID(ctx, oid.Hex())

		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), got.ID)
		assert.Equal(mt, "Dune", got.Title)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "dbooks.books", mtest.FirstBatch))

		_, err := books.FindByID(ctx, oid.Hex())

		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)

		_, err := books.FindByID(ctx, "123")
		assert.ErrorIs(mt, err, repository.ErrInvalidID)

		_, err = books.FindByIDAndUpdate(ctx, "xyz", map[string]any{"price": 1.0})
		assert.ErrorIs(mt, err, repository.ErrInvalidID)

		_, err = books.FindByIDAndDelete(ctx, "")
		assert.ErrorIs(mt, err, repository.ErrInvalidID)
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: oid}, {Key: "title", Value: "Dune"}, {Key: "price", Value: 12.0}, {Key: "category", Value: "scifi"},
			}},
		})

		got, err := books.FindByIDAndUpdate(ctx, oid.Hex(), map[string]any{"price": 12.0})

		require.NoError(mt, err)
		assert.Equal(mt, 12.0, got.Price)
		assert.Equal(mt, "Dune", got.Title)
	})

	mt.Run("update missing document", func(mt *mtest.T) {
		books := NewCollection[model.Book](mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := books.FindByIDAndUpdate(ctx, oid.Hex(), map[string]any{"price": 12.0})

		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("delete returns removed document", func(mt *mtest.T) {
		people := NewCollection[model.Person](mt.Coll)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: oid}, {Key: "firstname", Value: "Ada"}, {Key: "lastname", Value: "Lovelace"},
			}},
		})

		got, err := people.FindByIDAndDelete(ctx, oid.Hex())

		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), got.ID)
		assert.Equal(mt, "Ada", got.Firstname)
	})
}
