package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// The store abstraction used to manipulate accounts into our postgres
// database. It holds a DB connection pool.
type UsersStore struct {
	db *sqlx.DB
}

// Retrieve an account using its username. The lookup is case-sensitive,
// usernames are stored exactly as registered.
func (us *UsersStore) GetForUsername(username string) (User, error) {
	var user User
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := us.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = $1`, username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return User{}, ErrRecordNotFound
		default:
			return User{}, storageErr("users: get for username", err)
		}
	}

	return user, nil
}

// Report whether an account with the given username already exists.
func (us *UsersStore) Exists(username string) (bool, error) {
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := us.db.GetContext(ctx, &count, `SELECT count(*) FROM users WHERE username = $1`, username)
	if err != nil {
		return false, storageErr("users: exists", err)
	}

	return count > 0, nil
}

// Create a new account. The id and creation timestamp are assigned by the
// database. The password must be hashed by the caller before it gets here.
func (us *UsersStore) Insert(user User) (User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := us.db.GetContext(ctx, &user, `
		INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash)

	if err != nil {
		switch {
		// We can detect if an account with the same
		// username already exists in our DB.
		case err.Error() == `pq: duplicate key value violates unique constraint "users_username_key"`:
			return User{}, ErrDuplicateUsername
		default:
			return User{}, storageErr("users: insert", err)
		}
	}

	return user, nil
}
