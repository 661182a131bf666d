package images

import (
	"context"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
)

// The AuthMiddleware enforces the authentication requirements of the images
// service public interface. Public reads pass through untouched, everything
// acting on behalf of an owner requires an authenticated principal in the
// context. Ownership itself is not checked here, that is business logic of
// the core service.
type AuthMiddleware struct {
	Next Service
}

func (am *AuthMiddleware) ListPublic(ctx context.Context, filter filters.Input) ([]store.Image, filters.Meta, error) {
	return am.Next.ListPublic(ctx, filter)
}

func (am *AuthMiddleware) ListOwned(ctx context.Context) ([]store.Image, error) {
	if _, ok := auth.ContextGetPrincipal(ctx); !ok {
		return nil, store.ErrUnauthenticated
	}
	return am.Next.ListOwned(ctx)
}

// Get works in dual mode: anonymous viewers are legitimate here, the access
// policy inside the core service decides whether they may see the record.
func (am *AuthMiddleware) Get(ctx context.Context, imageID int64) (store.Image, error) {
	return am.Next.Get(ctx, imageID)
}

func (am *AuthMiddleware) Insert(ctx context.Context, image store.Image) (store.Image, error) {
	if _, ok := auth.ContextGetPrincipal(ctx); !ok {
		return store.Image{}, store.ErrUnauthenticated
	}
	return am.Next.Insert(ctx, image)
}

func (am *AuthMiddleware) Update(ctx context.Context, imageID int64, description *string, private *bool) (store.Image, error) {
	if _, ok := auth.ContextGetPrincipal(ctx); !ok {
		return store.Image{}, store.ErrUnauthenticated
	}
	return am.Next.Update(ctx, imageID, description, private)
}

func (am *AuthMiddleware) Delete(ctx context.Context, imageID int64) (store.Image, error) {
	if _, ok := auth.ContextGetPrincipal(ctx); !ok {
		return store.Image{}, store.ErrUnauthenticated
	}
	return am.Next.Delete(ctx, imageID)
}
