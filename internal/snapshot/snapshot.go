// Package snapshot exports whole collections to object storage as JSON arrays.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"recordapi/internal/repository"
	"recordapi/internal/storage"
)

const timestampLayout = "20060102T150405Z"

// Key returns the object key of the snapshot of collection taken at at.
func Key(collection string, at time.Time) string {
	return path.Join("snapshots", collection, at.UTC().Format(timestampLayout)+".json")
}

// Export writes every record of coll to objs under Key(collection, at).
func Export[T any](ctx context.Context, coll repository.Collection[T], objs storage.Storage, collection string, at time.Time) (storage.ObjectInfo, error) {
	items, err := coll.FindAll(ctx)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("read %s: %w", collection, err)
	}
	if items == nil {
		items = []T{}
	}

	body, err := json.Marshal(items)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("encode %s: %w", collection, err)
	}

	info, err := objs.Put(ctx, Key(collection, at), bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"collection": collection,
			"records":    strconv.Itoa(len(items)),
		},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("upload %s: %w", collection, err)
	}
	return info, nil
}
