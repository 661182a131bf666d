package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/seralvarez/picstash/pkg/filters"
)

type Image struct {
	ID          int64      `db:"id" json:"id"`
	Data        []byte     `db:"data" json:"-"`
	Filename    string     `db:"filename" json:"filename"`
	ContentType string     `db:"content_type" json:"content_type"`
	Size        int64      `db:"size" json:"size"`
	Description *string    `db:"description" json:"description"`
	Private     bool       `db:"is_private" json:"is_private"`
	UserID      int64      `db:"user_id" json:"user_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at"`
}

// The store abstraction used to manipulate images into our postgres database.
// The image bytes live in the same row as the metadata, so listing queries
// deliberately avoid selecting the data column.
type ImagesStore struct {
	db *sqlx.DB
}

// Obtain the page of public images requested by the filter, newest first and
// ties broken by insertion order. Private images never show up here. The
// method also returns pagination metadata computed from the total count.
func (is *ImagesStore) GetAllPublic(filter filters.Input) ([]Image, filters.Meta, error) {
	var (
		images   = []Image{}
		metadata = filter.CalculateMetadata(0)
		// Use a temporary variable to scan also the count.
		tmp []struct {
			Count int64 `db:"count"`
			Image
		}
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := is.db.SelectContext(ctx, &tmp, `
		SELECT count(*) OVER(),
			id, filename, content_type, size, description, is_private, user_id, created_at, updated_at
		FROM images
		WHERE is_private = false
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`, filter.Limit(), filter.Offset())

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return images, metadata, nil
		default:
			return nil, metadata, storageErr("images: get all public", err)
		}
	}

	for _, i := range tmp {
		images = append(images, i.Image)
	}
	if len(tmp) > 0 {
		metadata = filter.CalculateMetadata(tmp[0].Count)
	}

	return images, metadata, nil
}

// Obtain the images owned by a specific user, optionally restricted to the
// public ones. Same ordering as the public listing.
func (is *ImagesStore) GetAllForUser(userID int64, includePrivate bool) ([]Image, error) {
	images := []Image{}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	query := `
		SELECT id, filename, content_type, size, description, is_private, user_id, created_at, updated_at
		FROM images
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC`
	if !includePrivate {
		query = `
		SELECT id, filename, content_type, size, description, is_private, user_id, created_at, updated_at
		FROM images
		WHERE user_id = $1 AND is_private = false
		ORDER BY created_at DESC, id ASC`
	}

	err := is.db.SelectContext(ctx, &images, query, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return images, nil
		default:
			return nil, storageErr("images: get all for user", err)
		}
	}

	return images, nil
}

// Retrieve a single image record, bytes included.
func (is *ImagesStore) Get(imageID int64) (Image, error) {
	var image Image
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := is.db.GetContext(ctx, &image, `SELECT * FROM images WHERE id = $1`, imageID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return Image{}, ErrRecordNotFound
		default:
			return Image{}, storageErr("images: get", err)
		}
	}

	return image, nil
}

// Insert a new image record. The image struct passed in must contain the
// bytes and all metadata, while id and created_at are assigned by the
// database and returned in the persisted record.
func (is *ImagesStore) Insert(image Image) (Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := is.db.GetContext(ctx, &image, `
		INSERT
			INTO images (data, filename, content_type, size, description, is_private, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
	`, image.Data, image.Filename, image.ContentType, image.Size, image.Description, image.Private, image.UserID)
	if err != nil {
		return Image{}, storageErr("images: insert", err)
	}

	return image, nil
}

// Update the description and/or the visibility of an image. A nil field means
// "leave unchanged". The updated_at timestamp is set and the refreshed record
// is returned, bytes included. Bytes, filename and content type are never
// touched by updates.
func (is *ImagesStore) Update(imageID int64, description *string, private *bool) (Image, error) {
	var image Image
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := is.db.GetContext(ctx, &image, `
		UPDATE images SET
			description = COALESCE($1::text, description),
			is_private = COALESCE($2::boolean, is_private),
			updated_at = $3
		WHERE id = $4
		RETURNING *
	`, description, private, time.Now().UTC(), imageID)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return Image{}, ErrRecordNotFound
		default:
			return Image{}, storageErr("images: update", err)
		}
	}

	return image, nil
}

// Delete the image record, reporting whether a row was actually removed.
func (is *ImagesStore) Delete(imageID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := is.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, imageID)
	if err != nil {
		return false, storageErr("images: delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("images: delete", err)
	}

	return n > 0, nil
}
