package images

import (
	"context"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
)

// The ImagesService retrieves and saves image records in the backing store,
// enforcing the access policy on every call. Existence is always decided
// before ownership, so a missing record surfaces as not-found and never as
// forbidden.
type ImagesService struct {
	Store store.Store
}

// Returns a page of the public gallery, newest first. Pagination parameters
// are clamped here, not in the store: a page below 1 becomes 1 and an
// out-of-range page size falls back to the default.
func (is *ImagesService) ListPublic(ctx context.Context, filter filters.Input) ([]store.Image, filters.Meta, error) {
	images, metadata, err := is.Store.Images.GetAllPublic(filter.Sanitized())
	if err != nil {
		return nil, filters.Meta{}, err
	}
	return images, metadata, nil
}

// Returns all images owned by the authenticated user, private ones included.
func (is *ImagesService) ListOwned(ctx context.Context) ([]store.Image, error) {
	principal := auth.MustContextGetPrincipal(ctx)

	images, err := is.Store.Images.GetAllForUser(principal.ID, true)
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Fetch a single image, bytes included. The same fetch serves both the raw
// bytes delivery and the metadata-only projection, transport decides which
// parts of the record to expose.
func (is *ImagesService) Get(ctx context.Context, imageID int64) (store.Image, error) {
	image, err := is.Store.Images.Get(imageID)
	if err != nil {
		return store.Image{}, err
	}

	if !CanView(viewerFromCtx(ctx), image) {
		return store.Image{}, store.ErrForbidden
	}

	return image, nil
}

// Insert a new image owned by the authenticated user. The upload has already
// been validated by the validation middleware at this point.
func (is *ImagesService) Insert(ctx context.Context, image store.Image) (store.Image, error) {
	principal := auth.MustContextGetPrincipal(ctx)

	image, err := is.Store.Images.Insert(store.Image{
		Data:        image.Data,
		Filename:    image.Filename,
		ContentType: image.ContentType,
		Size:        int64(len(image.Data)),
		Description: image.Description,
		Private:     image.Private,
		UserID:      principal.ID,
	})
	if err != nil {
		return store.Image{}, err
	}

	return image, nil
}

// Update the description and/or the visibility of an owned image. A nil
// field is left unchanged. When both fields are nil the call is a true no-op
// and the stored record, timestamp included, is returned untouched.
func (is *ImagesService) Update(ctx context.Context, imageID int64, description *string, private *bool) (store.Image, error) {
	principal := auth.MustContextGetPrincipal(ctx)

	image, err := is.Store.Images.Get(imageID)
	if err != nil {
		return store.Image{}, err
	}
	if !CanMutate(&principal, image) {
		return store.Image{}, store.ErrForbidden
	}

	if description == nil && private == nil {
		return image, nil
	}

	image, err = is.Store.Images.Update(imageID, description, private)
	if err != nil {
		return store.Image{}, err
	}

	return image, nil
}

// Delete an owned image. The deleted record is returned so the caller can
// still inspect its metadata.
func (is *ImagesService) Delete(ctx context.Context, imageID int64) (store.Image, error) {
	principal := auth.MustContextGetPrincipal(ctx)

	image, err := is.Store.Images.Get(imageID)
	if err != nil {
		return store.Image{}, err
	}
	if !CanMutate(&principal, image) {
		return store.Image{}, store.ErrForbidden
	}

	deleted, err := is.Store.Images.Delete(imageID)
	if err != nil {
		return store.Image{}, err
	}
	if !deleted {
		// The record vanished between the ownership check and the delete.
		return store.Image{}, store.ErrEditConflict
	}

	return image, nil
}
