package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/seralvarez/picstash/pkg/filters"
	"github.com/seralvarez/picstash/pkg/store"
)

// This file contains application methods which signatures match the
// http.HandlerFunc so they can be registered as endpoints to our router.
// These methods act as wrappers around the 'core' services of the
// application, decoupling transport issues from the business logic.

// GET /images. Paginated public gallery, no authentication needed. Note that
// out-of-range pagination values are clamped by the service, not rejected.
func (app *application) publicGalleryHandler(w http.ResponseWriter, r *http.Request) {
	queryString := r.URL.Query()
	filter := filters.Input{
		Page:     readInt(queryString, "page", 1),
		PageSize: readInt(queryString, "pageSize", 20),
	}

	imagesList, metadata, err := app.images.ListPublic(r.Context(), filter)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendJSON(w, r, http.StatusOK, env{
		"data":     imagesList,
		"page":     metadata.CurrentPage,
		"pageSize": metadata.PageSize,
		"count":    len(imagesList),
	}, nil)
}

// GET /images/my-images. All images of the authenticated user, private ones
// included, with the public/private breakdown the original gallery UI shows.
func (app *application) listMyImagesHandler(w http.ResponseWriter, r *http.Request) {
	imagesList, err := app.images.ListOwned(r.Context())
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	publicCount := 0
	for _, image := range imagesList {
		if !image.Private {
			publicCount++
		}
	}

	app.sendJSON(w, r, http.StatusOK, env{
		"data":         imagesList,
		"count":        len(imagesList),
		"publicCount":  publicCount,
		"privateCount": len(imagesList) - publicCount,
	}, nil)
}

// GET /images/{id}. Delivers the raw image bytes with the stored content
// type. Works anonymously for public images, owner-only for private ones.
func (app *application) getImageHandler(w http.ResponseWriter, r *http.Request) {
	imageID, err := readUrlIntParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	image, err := app.images.Get(r.Context(), imageID)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendBytes(w, r, image.Data, http.Header{
		"Content-Type":        []string{image.ContentType},
		"Content-Disposition": []string{fmt.Sprintf("inline; filename=%q", image.Filename)},
	})
}

// GET /images/{id}/info. Same fetch and same access decision as the raw
// delivery above, but only the metadata projection is returned.
func (app *application) getImageInfoHandler(w http.ResponseWriter, r *http.Request) {
	imageID, err := readUrlIntParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	image, err := app.images.Get(r.Context(), imageID)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendJSON(w, r, http.StatusOK, env{
		"image":     image,
		"image_url": fmt.Sprintf("/images/%d", image.ID),
	}, nil)
}

// POST /images. Multipart upload: the file goes in the "image" part, the
// optional "description" and "is_private" fields ride along as form values.
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytesMultipart)

	err := r.ParseMultipartForm(maxBytesMultipart)
	if err != nil {
		app.malformedJSONResponse(w, r, fmt.Errorf("cannot parse multipart form: %v", err))
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		filename = header.Filename
		contentType = header.Header.Get("Content-Type")
	}

	var description *string
	if d := r.FormValue("description"); d != "" {
		description = &d
	}
	private := r.FormValue("is_private") == "true"

	image, err := app.images.Insert(r.Context(), store.Image{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
		Description: description,
		Private:     private,
	})
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendJSON(w, r, http.StatusCreated, env{
		"image":     image,
		"image_url": fmt.Sprintf("/images/%d", image.ID),
	}, nil)
}

// PUT /images/{id}. Partial metadata update: absent JSON fields leave the
// stored values unchanged, image bytes are immutable.
func (app *application) updateImageHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Description *string `json:"description"`
		IsPrivate   *bool   `json:"is_private"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		app.malformedJSONResponse(w, r, err)
		return
	}

	imageID, err := readUrlIntParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	image, err := app.images.Update(r.Context(), imageID, input.Description, input.IsPrivate)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendJSON(w, r, http.StatusOK, env{"image": image}, nil)
}

// DELETE /images/{id}. Owner-only, responds with no content on success.
func (app *application) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	imageID, err := readUrlIntParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	_, err = app.images.Delete(r.Context(), imageID)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendNoContent(w, r)
}
