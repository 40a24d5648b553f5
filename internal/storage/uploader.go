// Package storage uploads generated illustrations to Cloud Storage and hands
// back durable public URLs.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"regexp"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// dataURIPattern matches "data:image/<subtype>;base64,<payload>".
var dataURIPattern = regexp.MustCompile(`^data:(image/\w+);base64,(.+)$`)

// ErrInvalidDataURI is returned when an upload payload is not a base64 image data URI.
var ErrInvalidDataURI = errors.New("invalid base64 image data URI")

// ImageUploader stores base64-encoded images and returns fetchable URLs.
type ImageUploader interface {
	UploadImage(ctx context.Context, dataURI, userID string) (string, error)
}

// gcsImageUploader implements ImageUploader on a Cloud Storage bucket.
type gcsImageUploader struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewGCSImageUploader creates an uploader writing into the given bucket.
func NewGCSImageUploader(bucket *gcs.BucketHandle, bucketName string) ImageUploader {
	if bucket == nil {
		log.Fatal("Storage bucket is not initialized for ImageUploader.")
	}
	return &gcsImageUploader{bucket: bucket, bucketName: bucketName}
}

// ParseDataURI splits a data URI into its content type and decoded payload.
func ParseDataURI(dataURI string) (contentType string, payload []byte, err error) {
	match := dataURIPattern.FindStringSubmatch(dataURI)
	if match == nil {
		return "", nil, ErrInvalidDataURI
	}
	payload, err = base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return match[1], payload, nil
}

// UploadImage writes the decoded image under stories/{userID}/{uuid} and
// returns its public URL. Objects are uploaded with their declared content
// type so browsers render them directly.
func (u *gcsImageUploader) UploadImage(ctx context.Context, dataURI, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("userID cannot be empty for UploadImage operation")
	}

	contentType, payload, err := ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("stories/%s/%s", userID, uuid.NewString())
	writer := u.bucket.Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(payload); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to upload image '%s': %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize image upload '%s': %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, objectName), nil
}
