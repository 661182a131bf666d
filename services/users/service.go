package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/store"
)

// The UsersService creates accounts and exchanges valid credentials for
// bearer tokens. It never stores or logs the plain text password.
type UsersService struct {
	Store     store.Store
	Tokenizer *auth.Tokenizer
}

// Register a new account. The username must not be taken, the password is
// hashed with bcrypt before it touches the store.
func (us *UsersService) Register(ctx context.Context, username, email, password string) (store.User, error) {
	taken, err := us.Store.Users.Exists(username)
	if err != nil {
		return store.User{}, err
	}
	if taken {
		return store.User{}, store.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return store.User{}, err
	}

	// The existence check above and this insert are two separate round-trips,
	// the unique constraint on the username closes the race between them.
	user, err := us.Store.Users.Insert(store.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return store.User{}, err
	}

	return user, nil
}

// Login verifies the provided credentials and issues a bearer token. An
// unknown username and a wrong password are indistinguishable for the
// caller, both come back as a generic unauthenticated error.
func (us *UsersService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	user, err := us.Store.Users.GetForUsername(username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			return auth.Token{}, store.ErrUnauthenticated
		default:
			return auth.Token{}, err
		}
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return auth.Token{}, store.ErrUnauthenticated
		default:
			return auth.Token{}, err
		}
	}

	token, err := us.Tokenizer.Issue(user.ID, user.Username)
	if err != nil {
		return auth.Token{}, err
	}

	return token, nil
}
