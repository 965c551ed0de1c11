package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"recordapi/internal/model"
	"recordapi/internal/service"
)

// Resource describes where a record kind is mounted. ListPath serves the
// collection listing; ItemPath serves create and the /:id routes.
type Resource struct {
	Kind     string
	ListPath string
	ItemPath string
}

// RegisterResource attaches the five record routes for one kind of record.
// D and P are the create and update payloads checked by Validate before the handler runs.
func RegisterResource[T any, D model.Draft[T], P model.Patch](r fiber.Router, res Resource, svc service.RecordService[T], logger *zap.Logger) {
	item := res.ItemPath + "/:id"

	r.Get(res.ListPath, ListRecords(svc, res.Kind, logger))
	r.Post(res.ItemPath, Validate[D](), CreateRecord[T, D](svc, res.Kind, logger))
	r.Get(item, GetRecord(svc, res.Kind, logger))
	r.Put(item, Validate[P](), UpdateRecord[T, P](svc, res.Kind, logger))
	r.Delete(item, DeleteRecord(svc, res.Kind, logger))
}

// ListRecords returns every record as a JSON array.
func ListRecords[T any](svc service.RecordService[T], kind string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, logger, kind, err)
		}
		return c.JSON(items)
	}
}

// GetRecord returns the record named by the :id path parameter.
func GetRecord[T any](svc service.RecordService[T], kind string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := svc.Get(c.UserContext(), utils.CopyString(c.Params("id")))
		if err != nil {
			return writeServiceError(c, logger, kind, err)
		}
		return c.JSON(rec)
	}
}

// CreateRecord persists the validated create payload and answers 201 with the stored record.
func CreateRecord[T any, D model.Draft[T]](svc service.RecordService[T], kind string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, ok := payload[D](c)
		if !ok {
			return fiber.ErrBadRequest
		}
		rec, err := svc.Create(c.UserContext(), draft.Record())
		if err != nil {
			return writeServiceError(c, logger, kind, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// UpdateRecord applies the validated partial payload and returns the updated record.
func UpdateRecord[T any, P model.Patch](svc service.RecordService[T], kind string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch, ok := payload[P](c)
		if !ok {
			return fiber.ErrBadRequest
		}
		rec, err := svc.Update(c.UserContext(), utils.CopyString(c.Params("id")), patch.Changes())
		if err != nil {
			return writeServiceError(c, logger, kind, err)
		}
		return c.JSON(rec)
	}
}

// DeleteRecord removes the record and returns it.
func DeleteRecord[T any](svc service.RecordService[T], kind string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := svc.Delete(c.UserContext(), utils.CopyString(c.Params("id")))
		if err != nil {
			return writeServiceError(c, logger, kind, err)
		}
		return c.JSON(rec)
	}
}
