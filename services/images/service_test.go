package images

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
)

func ctxForUser(id int64, username string) context.Context {
	return auth.ContextSetPrincipal(context.Background(), auth.Principal{ID: id, Username: username})
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestListPublicClampsPagination(t *testing.T) {
	fake := newFakeImagesStore()
	service := &ImagesService{Store: store.Store{Images: fake}}

	_, _, err := service.ListPublic(context.Background(), filters.Input{Page: -3, PageSize: 5000})
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}

	if fake.lastFilter == nil {
		t.Fatal("store was not called")
	}
	if fake.lastFilter.Page != 1 {
		t.Errorf("store received page %d, want 1", fake.lastFilter.Page)
	}
	if fake.lastFilter.PageSize != 20 {
		t.Errorf("store received page size %d, want 20", fake.lastFilter.PageSize)
	}
}

func TestListPublicHidesPrivateImages(t *testing.T) {
	fake := newFakeImagesStore()
	fake.add(store.Image{Filename: "pub.png", UserID: 1, Private: false})
	fake.add(store.Image{Filename: "priv.png", UserID: 1, Private: true})
	service := &ImagesService{Store: store.Store{Images: fake}}

	images, _, err := service.ListPublic(context.Background(), filters.Input{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	for _, image := range images {
		if image.Private {
			t.Errorf("public listing contains private image %d", image.ID)
		}
	}
	if len(images) != 1 {
		t.Errorf("got %d images, want 1", len(images))
	}
}

func TestListOwnedIncludesPrivate(t *testing.T) {
	fake := newFakeImagesStore()
	fake.add(store.Image{Filename: "pub.png", UserID: 1, Private: false})
	fake.add(store.Image{Filename: "priv.png", UserID: 1, Private: true})
	fake.add(store.Image{Filename: "other.png", UserID: 2, Private: false})
	service := &ImagesService{Store: store.Store{Images: fake}}

	images, err := service.ListOwned(ctxForUser(1, "alice"))
	if err != nil {
		t.Fatalf("ListOwned failed: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("got %d images, want 2", len(images))
	}
	for _, image := range images {
		if image.UserID != 1 {
			t.Errorf("listing contains image of user %d", image.UserID)
		}
	}
}

func TestGetAccessPolicy(t *testing.T) {
	fake := newFakeImagesStore()
	public := fake.add(store.Image{Filename: "pub.png", UserID: 1, Private: false, Data: []byte("pub")})
	private := fake.add(store.Image{Filename: "priv.png", UserID: 1, Private: true, Data: []byte("priv")})
	service := &ImagesService{Store: store.Store{Images: fake}}

	t.Run("public image served to anonymous viewer", func(t *testing.T) {
		image, err := service.Get(context.Background(), public.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(image.Data, []byte("pub")) {
			t.Errorf("unexpected image bytes: %q", image.Data)
		}
	})

	t.Run("private image denied to anonymous viewer", func(t *testing.T) {
		_, err := service.Get(context.Background(), private.ID)
		if !errors.Is(err, store.ErrForbidden) {
			t.Errorf("got %v, want ErrForbidden", err)
		}
	})

	t.Run("private image denied to non-owner", func(t *testing.T) {
		_, err := service.Get(ctxForUser(2, "bob"), private.ID)
		if !errors.Is(err, store.ErrForbidden) {
			t.Errorf("got %v, want ErrForbidden", err)
		}
	})

	t.Run("private image served to owner", func(t *testing.T) {
		image, err := service.Get(ctxForUser(1, "alice"), private.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(image.Data, []byte("priv")) {
			t.Errorf("unexpected image bytes: %q", image.Data)
		}
	})

	t.Run("missing image is not found, not forbidden", func(t *testing.T) {
		_, err := service.Get(context.Background(), 999)
		if !errors.Is(err, store.ErrRecordNotFound) {
			t.Errorf("got %v, want ErrRecordNotFound", err)
		}
	})
}

func TestInsertAssignsOwnerAndSize(t *testing.T) {
	fake := newFakeImagesStore()
	service := &ImagesService{Store: store.Store{Images: fake}}

	payload := []byte("these are image bytes")
	image, err := service.Insert(ctxForUser(7, "alice"), store.Image{
		Data:        payload,
		Filename:    "pic.png",
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if image.UserID != 7 {
		t.Errorf("owner = %d, want 7", image.UserID)
	}
	if image.Size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", image.Size, len(payload))
	}
	if image.ID == 0 {
		t.Error("expected a store-assigned id")
	}

	// Round-trip: the fetched record carries the exact same bytes and type.
	stored, err := service.Get(ctxForUser(7, "alice"), image.ID)
	if err != nil {
		t.Fatalf("Get after Insert failed: %v", err)
	}
	if !bytes.Equal(stored.Data, payload) {
		t.Error("stored bytes differ from the uploaded payload")
	}
	if stored.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", stored.ContentType)
	}
}

func TestUpdateOwnership(t *testing.T) {
	fake := newFakeImagesStore()
	image := fake.add(store.Image{Filename: "pic.png", UserID: 1, Private: false})
	service := &ImagesService{Store: store.Store{Images: fake}}

	t.Run("missing image reported before ownership", func(t *testing.T) {
		_, err := service.Update(ctxForUser(2, "bob"), 999, strPtr("new"), nil)
		if !errors.Is(err, store.ErrRecordNotFound) {
			t.Errorf("got %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("non-owner denied", func(t *testing.T) {
		_, err := service.Update(ctxForUser(2, "bob"), image.ID, strPtr("new"), nil)
		if !errors.Is(err, store.ErrForbidden) {
			t.Errorf("got %v, want ErrForbidden", err)
		}
		if fake.updateCalls != 0 {
			t.Errorf("store update called %d times on denied request", fake.updateCalls)
		}
	})

	t.Run("owner updates provided fields only", func(t *testing.T) {
		updated, err := service.Update(ctxForUser(1, "alice"), image.ID, strPtr("a caption"), boolPtr(true))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Description == nil || *updated.Description != "a caption" {
			t.Errorf("description not updated: %+v", updated.Description)
		}
		if !updated.Private {
			t.Error("visibility not updated")
		}
		if updated.UpdatedAt == nil {
			t.Error("updated timestamp not set")
		}
	})

	t.Run("absent fields leave values unchanged", func(t *testing.T) {
		updated, err := service.Update(ctxForUser(1, "alice"), image.ID, nil, boolPtr(false))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Description == nil || *updated.Description != "a caption" {
			t.Errorf("description changed by absent field: %+v", updated.Description)
		}
		if updated.Private {
			t.Error("visibility not updated")
		}
	})

	t.Run("call with no fields is a true no-op", func(t *testing.T) {
		before := fake.updateCalls
		updated, err := service.Update(ctxForUser(1, "alice"), image.ID, nil, nil)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if fake.updateCalls != before {
			t.Error("no-op update reached the store")
		}
		if updated.ID != image.ID {
			t.Errorf("got record %d, want %d", updated.ID, image.ID)
		}
	})
}

func TestDeleteOwnership(t *testing.T) {
	fake := newFakeImagesStore()
	image := fake.add(store.Image{Filename: "pic.png", UserID: 1, Private: true})
	service := &ImagesService{Store: store.Store{Images: fake}}

	t.Run("missing image reported before ownership", func(t *testing.T) {
		_, err := service.Delete(ctxForUser(2, "bob"), 999)
		if !errors.Is(err, store.ErrRecordNotFound) {
			t.Errorf("got %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("non-owner denied without store mutation", func(t *testing.T) {
		_, err := service.Delete(ctxForUser(2, "bob"), image.ID)
		if !errors.Is(err, store.ErrForbidden) {
			t.Errorf("got %v, want ErrForbidden", err)
		}
		if fake.deleteCalls != 0 {
			t.Errorf("store delete called %d times on denied request", fake.deleteCalls)
		}
	})

	t.Run("owner deletes, record is gone", func(t *testing.T) {
		_, err := service.Delete(ctxForUser(1, "alice"), image.ID)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, err = service.Get(ctxForUser(1, "alice"), image.ID)
		if !errors.Is(err, store.ErrRecordNotFound) {
			t.Errorf("got %v after delete, want ErrRecordNotFound", err)
		}
	})
}
