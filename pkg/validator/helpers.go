package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

// Limits applied to image uploads. Both are checked before any byte reaches
// the store, rejected uploads never cause partial writes.
const MaxUploadBytes = 5 * 1024 * 1024 // 5 MiB

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

func ValidateRegistration(v Validator, username, email, password string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(len(username) <= 100, "username", "must not be more than 100 bytes long")
	ValidateEmail(v, email)
	ValidatePassword(v, password)
}

func ValidateEmail(v Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(Matches(email, EmailRX), "email", "must be a valid email address")
}

func ValidatePassword(v Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

// ValidateUpload checks a candidate upload before persistence. The content
// type comparison is case-insensitive against the fixed allow-list. An empty
// payload short-circuits, the other checks are meaningless without bytes.
func ValidateUpload(v Validator, size int64, contentType string) {
	if size <= 0 {
		v.AddError("image", "no image bytes provided")
		return
	}
	v.Check(size <= MaxUploadBytes, "image", fmt.Sprintf("must not be larger than %d MB", MaxUploadBytes/1024/1024))
	v.Check(
		In(strings.ToLower(contentType), AllowedImageTypes...),
		"content_type",
		fmt.Sprintf("type not allowed, use one of: %s", strings.Join(AllowedImageTypes, ", ")),
	)
}
