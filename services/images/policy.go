package images

import (
	"context"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/store"
)

// Access decisions for a single image. Both functions are pure: they look
// only at the viewer and at the current owner/visibility of the record, so
// they must be re-evaluated on every call. Decisions are never cached since
// an update can toggle the visibility between two calls.

// CanView reports whether the viewer may read the image bytes and metadata.
// Public images are readable by anyone, anonymous viewers included. Private
// images are readable by their owner only.
func CanView(viewer *auth.Principal, image store.Image) bool {
	if !image.Private {
		return true
	}
	return viewer != nil && viewer.ID == image.UserID
}

// CanMutate reports whether the actor may update or delete the image. Only
// the owner may, visibility plays no role here.
func CanMutate(actor *auth.Principal, image store.Image) bool {
	return actor != nil && actor.ID == image.UserID
}

// viewerFromCtx adapts the context principal to the optional viewer the
// policy functions expect. A missing principal is a legitimate anonymous
// viewer, not an error.
func viewerFromCtx(ctx context.Context) *auth.Principal {
	principal, ok := auth.ContextGetPrincipal(ctx)
	if !ok {
		return nil
	}
	return &principal
}
