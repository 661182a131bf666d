package store

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/seralvarez/picstash/pkg/filters"
)

// The Store aggregates the persistence layers of the application. The fields
// are interfaces so the orchestration services can be exercised against fakes,
// while New wires in the postgres-backed implementations. The concrete stores
// share a single injected connection pool and never open connections
// themselves.
type Store struct {
	Users  UsersStorage
	Images ImagesStorage
}

func New(db *sqlx.DB) Store {
	return Store{
		Users:  &UsersStore{db},
		Images: &ImagesStore{db},
	}
}

// UsersStorage persists account records. Accounts are created once at
// registration and never mutated afterwards.
type UsersStorage interface {
	GetForUsername(username string) (User, error)
	Exists(username string) (bool, error)
	Insert(user User) (User, error)
}

// ImagesStorage persists image blobs plus their metadata. Every operation is
// a single round-trip against the database, nothing partially applies.
type ImagesStorage interface {
	GetAllPublic(filter filters.Input) ([]Image, filters.Meta, error)
	GetAllForUser(userID int64, includePrivate bool) ([]Image, error)
	Get(imageID int64) (Image, error)
	Insert(image Image) (Image, error)
	Update(imageID int64, description *string, private *bool) (Image, error)
	Delete(imageID int64) (bool, error)
}

// Business outcomes surfaced by the stores and by the services built on top
// of them. Callers switch on these to map failures to transport responses.
var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
)

// StorageError marks an I/O or connectivity fault of the backing store. It is
// never a business outcome: callers must not interpret it as "not found" and
// must not leak the wrapped detail to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
