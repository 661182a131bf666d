package images

import (
	"context"

	"github.com/gabriel-vasile/mimetype"

	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
	"github.com/seralvarez/picstash/pkg/validator"
)

// The ValidationMiddleware rejects bad inputs before they reach the core
// service, so a rejected upload never causes a store mutation.
type ValidationMiddleware struct {
	Next Service
}

func (vm *ValidationMiddleware) ListPublic(ctx context.Context, filter filters.Input) ([]store.Image, filters.Meta, error) {
	return vm.Next.ListPublic(ctx, filter)
}

func (vm *ValidationMiddleware) ListOwned(ctx context.Context) ([]store.Image, error) {
	return vm.Next.ListOwned(ctx)
}

func (vm *ValidationMiddleware) Get(ctx context.Context, imageID int64) (store.Image, error) {
	return vm.Next.Get(ctx, imageID)
}

// Insert validates the upload: the payload must be present, must not exceed
// the size ceiling and the content type must be on the allow-list. When no
// content type was declared the payload is sniffed and the detected type is
// validated instead.
func (vm *ValidationMiddleware) Insert(ctx context.Context, image store.Image) (store.Image, error) {
	if image.ContentType == "" && len(image.Data) > 0 {
		image.ContentType = mimetype.Detect(image.Data).String()
	}

	v := validator.New()
	validator.ValidateUpload(v, int64(len(image.Data)), image.ContentType)
	v.Check(image.Filename != "", "filename", "must be specified")
	if !v.Ok() {
		return store.Image{}, v
	}

	return vm.Next.Insert(ctx, image)
}

func (vm *ValidationMiddleware) Update(ctx context.Context, imageID int64, description *string, private *bool) (store.Image, error) {
	v := validator.New()
	if description != nil {
		v.Check(len(*description) <= 1000, "description", "must not be more than 1000 bytes long")
	}
	if !v.Ok() {
		return store.Image{}, v
	}
	return vm.Next.Update(ctx, imageID, description, private)
}

func (vm *ValidationMiddleware) Delete(ctx context.Context, imageID int64) (store.Image, error) {
	return vm.Next.Delete(ctx, imageID)
}
