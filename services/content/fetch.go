package content

import (
	"context"
	"errors"

	"memberportal/database/repository"
	contentRepo "memberportal/database/repository/content"
	"memberportal/utils"

	"go.uber.org/zap"
)

// Orderings used by the fetchers.
var (
	NewestFirst  = contentRepo.Sort{{Field: "created_at", Desc: true}}
	SoonestFirst = contentRepo.Sort{{Field: "date"}, {Field: "created_at"}}
	PinnedFirst  = contentRepo.Sort{{Field: "pinned", Desc: true}, {Field: "created_at", Desc: true}}
)

// fetch lists a collection. A collection that does not exist yet reads as
// empty; anything else is logged and returned.
func fetch[T any](ctx context.Context, name string, store contentRepo.Store[T], order contentRepo.Sort) ([]*T, error) {
	items, err := store.List(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionMissing) || repository.IsMissingCollection(err) {
			return []*T{}, nil
		}
		utils.GetLogger().Error("Failed to fetch content", zap.String("collection", name), zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}
