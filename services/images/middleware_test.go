package images

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
	"github.com/seralvarez/picstash/pkg/validator"
)

// A minimal PNG header, enough for content sniffing to identify the payload.
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func newService(fake *fakeImagesStore) Service {
	var service Service = &ImagesService{Store: store.Store{Images: fake}}
	service = &ValidationMiddleware{Next: service}
	service = &AuthMiddleware{Next: service}
	return service
}

func TestAuthMiddlewareRequiresPrincipal(t *testing.T) {
	fake := newFakeImagesStore()
	image := fake.add(store.Image{Filename: "pic.png", UserID: 1, Private: false})
	service := newService(fake)
	anon := context.Background()

	t.Run("mutations rejected for anonymous callers", func(t *testing.T) {
		if _, err := service.ListOwned(anon); !errors.Is(err, store.ErrUnauthenticated) {
			t.Errorf("ListOwned: got %v, want ErrUnauthenticated", err)
		}
		if _, err := service.Insert(anon, store.Image{Filename: "x.png", Data: pngMagic}); !errors.Is(err, store.ErrUnauthenticated) {
			t.Errorf("Insert: got %v, want ErrUnauthenticated", err)
		}
		if _, err := service.Update(anon, image.ID, strPtr("x"), nil); !errors.Is(err, store.ErrUnauthenticated) {
			t.Errorf("Update: got %v, want ErrUnauthenticated", err)
		}
		if _, err := service.Delete(anon, image.ID); !errors.Is(err, store.ErrUnauthenticated) {
			t.Errorf("Delete: got %v, want ErrUnauthenticated", err)
		}
		if fake.insertCalls+fake.updateCalls+fake.deleteCalls != 0 {
			t.Error("store mutated by an unauthenticated request")
		}
	})

	t.Run("public reads pass through", func(t *testing.T) {
		if _, _, err := service.ListPublic(anon, filters.Input{Page: 1, PageSize: 20}); err != nil {
			t.Errorf("ListPublic: %v", err)
		}
		if _, err := service.Get(anon, image.ID); err != nil {
			t.Errorf("Get: %v", err)
		}
	})
}

func TestValidationMiddlewareInsert(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		filename    string
		wantErrs    map[string]string
	}{
		{
			name:        "valid upload",
			data:        pngMagic,
			contentType: "image/png",
			filename:    "pic.png",
		},
		{
			name:        "content type sniffed when undeclared",
			data:        pngMagic,
			contentType: "",
			filename:    "pic.png",
		},
		{
			name:        "empty payload",
			data:        nil,
			contentType: "image/png",
			filename:    "pic.png",
			wantErrs:    map[string]string{"image": "provided"},
		},
		{
			name:        "payload over the ceiling",
			data:        make([]byte, validator.MaxUploadBytes+1),
			contentType: "image/png",
			filename:    "pic.png",
			wantErrs:    map[string]string{"image": "5 MB"},
		},
		{
			name:        "type off the allow-list",
			data:        []byte("GIF89a but declared otherwise"),
			contentType: "application/pdf",
			filename:    "doc.pdf",
			wantErrs:    map[string]string{"content_type": "image/webp"},
		},
		{
			name:        "missing filename",
			data:        pngMagic,
			contentType: "image/png",
			filename:    "",
			wantErrs:    map[string]string{"filename": "must be specified"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeImagesStore()
			service := newService(fake)

			_, err := service.Insert(ctxForUser(1, "alice"), store.Image{
				Data:        tt.data,
				ContentType: tt.contentType,
				Filename:    tt.filename,
			})

			if tt.wantErrs == nil {
				if err != nil {
					t.Fatalf("Insert failed: %v", err)
				}
				if fake.insertCalls != 1 {
					t.Errorf("store insert called %d times, want 1", fake.insertCalls)
				}
				return
			}

			var v validator.Validator
			if !errors.As(err, &v) {
				t.Fatalf("got %v, want a validation error", err)
			}
			for field, fragment := range tt.wantErrs {
				if !strings.Contains(v[field], fragment) {
					t.Errorf("error for %q = %q, want it to mention %q", field, v[field], fragment)
				}
			}
			if fake.insertCalls != 0 {
				t.Errorf("store insert called %d times for a rejected upload", fake.insertCalls)
			}
		})
	}
}

func TestValidationMiddlewareUpdate(t *testing.T) {
	fake := newFakeImagesStore()
	image := fake.add(store.Image{Filename: "pic.png", UserID: 1})
	service := newService(fake)

	long := strings.Repeat("a", 1001)
	_, err := service.Update(ctxForUser(1, "alice"), image.ID, &long, nil)

	var v validator.Validator
	if !errors.As(err, &v) {
		t.Fatalf("got %v, want a validation error", err)
	}
	if v["description"] == "" {
		t.Error("missing error for the description field")
	}
	if fake.updateCalls != 0 {
		t.Errorf("store update called %d times for a rejected update", fake.updateCalls)
	}
}
