package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recordapi/internal/repository"
)

// Collection is a MongoDB implementation of repository.Collection.
// Documents are addressed by ObjectID; T decodes "_id" into its ID field as a hex string.
type Collection[T any] struct {
	coll *mongo.Collection
}

// NewCollection wraps a driver collection.
func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

var _ repository.Collection[bson.M] = (*Collection[bson.M])(nil)

// FindAll returns every document in natural order.
func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single document by its ObjectID.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var out T
	if err := c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// Insert stores doc under a fresh ObjectID and returns it with the ID set.
func (c *Collection[T]) Insert(ctx context.Context, doc T) (*T, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, err
	}
	fields["_id"] = primitive.NewObjectID()

	if _, err := c.coll.InsertOne(ctx, fields); err != nil {
		return nil, err
	}

	raw, err := bson.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &out, nil
}

// FindByIDAndUpdate applies changes with $set and returns the updated document.
func (c *Collection[T]) FindByIDAndUpdate(ctx context.Context, id string, changes map[string]any) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for k, v := range changes {
		if k == "_id" || k == "id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return c.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	if err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// FindByIDAndDelete removes a document and returns it.
func (c *Collection[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var out T
	if err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return oid, nil
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func toFields(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	fields := bson.M{}
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "_id")
	return fields, nil
}
