package storage

import (
	"encoding/base64"
	"strings"

	"quickchat/internal/pkg/errs"
)

const (
	// MaxImageSizeMB is the maximum allowed decoded image size in megabytes.
	MaxImageSizeMB = 5

	// MaxImageSize is the maximum allowed decoded image size in bytes.
	MaxImageSize = MaxImageSizeMB * 1024 * 1024
)

// AllowedMIMETypes defines the set of permitted image MIME types.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// MIMEToExt maps allowed MIME types to the object-key file extension.
var MIMEToExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// DecodeDataURI parses a base64 image data URI of the form
// "data:image/png;base64,...." and returns the raw bytes and MIME type.
// The MIME type must be on the allowlist and the decoded payload must fit
// the size limit.
func DecodeDataURI(uri string) ([]byte, string, *errs.CustomError) {
	const prefix = "data:"

	if !strings.HasPrefix(uri, prefix) {
		return nil, "", errs.NewError(errs.ErrImageDataInvalid)
	}

	meta, payload, found := strings.Cut(uri[len(prefix):], ",")
	if !found {
		return nil, "", errs.NewError(errs.ErrImageDataInvalid)
	}

	mimeType, encoding, found := strings.Cut(meta, ";")
	if !found || encoding != "base64" {
		return nil, "", errs.NewError(errs.ErrImageDataInvalid)
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if _, ok := AllowedMIMETypes[mimeType]; !ok {
		return nil, "", errs.NewError(errs.ErrImageTypeInvalid)
	}

	// A base64 payload longer than 4/3 of the limit cannot decode under it.
	if len(payload) > (MaxImageSize/3+1)*4 {
		return nil, "", errs.NewError(errs.ErrImageTooLarge)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errs.NewError(errs.ErrImageDataInvalid)
	}

	if len(data) == 0 {
		return nil, "", errs.NewError(errs.ErrImageDataInvalid)
	}

	if len(data) > MaxImageSize {
		return nil, "", errs.NewError(errs.ErrImageTooLarge)
	}

	return data, mimeType, nil
}
