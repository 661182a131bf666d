package users

import (
	"context"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/store"
)

// Public interface of the accounts service. Registration and login are both
// unauthenticated operations, the credential issued at login is what the
// rest of the API authenticates with.
type Service interface {
	Register(ctx context.Context, username, email, password string) (store.User, error)
	Login(ctx context.Context, username, password string) (auth.Token, error)
}

var _ Service = &UsersService{}
var _ Service = &ValidationMiddleware{}
