package images

import (
	"context"

	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
)

// Public interface of the images service. The service is exposed via
// transport-specific adapters, e.g. the JSON-HTTP api. Reading operations
// accept anonymous viewers, mutating operations always act on behalf of the
// authenticated principal found in the context.
type Service interface {
	ListPublic(ctx context.Context, filter filters.Input) ([]store.Image, filters.Meta, error)
	ListOwned(ctx context.Context) ([]store.Image, error)
	Get(ctx context.Context, imageID int64) (store.Image, error)
	Insert(ctx context.Context, image store.Image) (store.Image, error)
	Update(ctx context.Context, imageID int64, description *string, private *bool) (store.Image, error)
	Delete(ctx context.Context, imageID int64) (store.Image, error)
}

// These checks make sure that all service implementations remain
// valid while we refactor our code.
var _ Service = &ImagesService{}
var _ Service = &AuthMiddleware{}
var _ Service = &ValidationMiddleware{}
