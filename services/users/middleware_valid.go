package users

import (
	"context"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/store"
	"github.com/seralvarez/picstash/pkg/validator"
)

type ValidationMiddleware struct {
	Next Service
}

func (vm *ValidationMiddleware) Register(ctx context.Context, username, email, password string) (store.User, error) {
	v := validator.New()
	validator.ValidateRegistration(v, username, email, password)
	if !v.Ok() {
		return store.User{}, v
	}
	return vm.Next.Register(ctx, username, email, password)
}

func (vm *ValidationMiddleware) Login(ctx context.Context, username, password string) (auth.Token, error) {
	v := validator.New()
	v.Check(username != "", "username", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Ok() {
		return auth.Token{}, v
	}
	return vm.Next.Login(ctx, username, password)
}
