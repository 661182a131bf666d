package images

import (
	"time"

	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
)

// In-memory stand-in for the postgres images store, tracking the calls the
// services issue against it.
type fakeImagesStore struct {
	images      map[int64]store.Image
	nextID      int64
	lastFilter  *filters.Input
	insertCalls int
	updateCalls int
	deleteCalls int
}

func newFakeImagesStore() *fakeImagesStore {
	return &fakeImagesStore{
		images: make(map[int64]store.Image),
		nextID: 1,
	}
}

func (f *fakeImagesStore) add(image store.Image) store.Image {
	image.ID = f.nextID
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}
	f.images[image.ID] = image
	f.nextID++
	return image
}

func (f *fakeImagesStore) GetAllPublic(filter filters.Input) ([]store.Image, filters.Meta, error) {
	f.lastFilter = &filter
	images := []store.Image{}
	for id := int64(1); id < f.nextID; id++ {
		image, ok := f.images[id]
		if ok && !image.Private {
			images = append(images, image)
		}
	}
	return images, filter.CalculateMetadata(int64(len(images))), nil
}

func (f *fakeImagesStore) GetAllForUser(userID int64, includePrivate bool) ([]store.Image, error) {
	images := []store.Image{}
	for id := int64(1); id < f.nextID; id++ {
		image, ok := f.images[id]
		if !ok || image.UserID != userID {
			continue
		}
		if image.Private && !includePrivate {
			continue
		}
		images = append(images, image)
	}
	return images, nil
}

func (f *fakeImagesStore) Get(imageID int64) (store.Image, error) {
	image, ok := f.images[imageID]
	if !ok {
		return store.Image{}, store.ErrRecordNotFound
	}
	return image, nil
}

func (f *fakeImagesStore) Insert(image store.Image) (store.Image, error) {
	f.insertCalls++
	return f.add(image), nil
}

func (f *fakeImagesStore) Update(imageID int64, description *string, private *bool) (store.Image, error) {
	f.updateCalls++
	image, ok := f.images[imageID]
	if !ok {
		return store.Image{}, store.ErrRecordNotFound
	}
	if description != nil {
		image.Description = description
	}
	if private != nil {
		image.Private = *private
	}
	now := time.Now().UTC()
	image.UpdatedAt = &now
	f.images[imageID] = image
	return image, nil
}

func (f *fakeImagesStore) Delete(imageID int64) (bool, error) {
	f.deleteCalls++
	_, ok := f.images[imageID]
	delete(f.images, imageID)
	return ok, nil
}

var _ store.ImagesStorage = &fakeImagesStore{}
