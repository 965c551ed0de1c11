package app

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recordapi/internal/http/handler"
	"recordapi/internal/model"
	"recordapi/internal/service"
	"recordapi/internal/snapshot"
	"recordapi/internal/storage"
	"recordapi/internal/store"
)

// Service describes one record API: its binary name, default database,
// collection and routes.
type Service struct {
	Name       string
	Database   string
	Collection string

	mount    func(r fiber.Router, c *store.Client, logger *zap.Logger) error
	snapshot func(ctx context.Context, c *store.Client, objs storage.Storage, at time.Time) (storage.ObjectInfo, error)
}

var (
	// Book serves the book catalog.
	Book = newService[model.Book, model.BookDraft, model.BookPatch]("book-api", "dbooks", "books",
		handler.Resource{Kind: "book", ListPath: "/book", ItemPath: "/book"})

	// Person serves the person directory.
	Person = newService[model.Person, model.PersonDraft, model.PersonPatch]("person-api", "polyglot", "people",
		handler.Resource{Kind: "person", ListPath: "/people", ItemPath: "/person"})
)

func newService[T any, D model.Draft[T], P model.Patch](name, database, collection string, res handler.Resource) Service {
	return Service{
		Name:       name,
		Database:   database,
		Collection: collection,
		mount: func(r fiber.Router, c *store.Client, logger *zap.Logger) error {
			coll, err := store.Collection[T](c, collection)
			if err != nil {
				return err
			}
			handler.RegisterResource[T, D, P](r, res, service.NewRecordService[T](res.Kind, coll), logger)
			return nil
		},
		snapshot: func(ctx context.Context, c *store.Client, objs storage.Storage, at time.Time) (storage.ObjectInfo, error) {
			coll, err := store.Collection[T](c, collection)
			if err != nil {
				return storage.ObjectInfo{}, err
			}
			return snapshot.Export[T](ctx, coll, objs, collection, at)
		},
	}
}

// Mount registers the record routes on r using collections from c.
func (s Service) Mount(r fiber.Router, c *store.Client, logger *zap.Logger) error {
	return s.mount(r, c, logger)
}

// Snapshot exports the service's collection to objs.
func (s Service) Snapshot(ctx context.Context, c *store.Client, objs storage.Storage, at time.Time) (storage.ObjectInfo, error) {
	return s.snapshot(ctx, c, objs, at)
}

// ByCollection returns the service that owns the named collection.
func ByCollection(name string) (Service, bool) {
	for _, s := range []Service{Book, Person} {
		if s.Collection == name {
			return s, true
		}
	}
	return Service{}, false
}
