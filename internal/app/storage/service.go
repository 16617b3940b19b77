// Package storage wraps the S3-compatible object store that hosts message
// images and profile pictures.
package storage

import (
	"context"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ImageService is the image hosting collaborator: store bytes, get back a
// durable URL.
type ImageService interface {
	// UploadImage stores the image bytes under a fresh object key and
	// returns the durable public URL of the object.
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
}

// NewImageService is the factory function for ImageService.
// Only S3-compatible backends are currently supported.
func NewImageService(cfg ServiceConfig) (ImageService, error) {
	return newS3Client(cfg)
}
