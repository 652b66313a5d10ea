package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const cloudinaryResourceType = "raw"

type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary stores evidence as raw assets whose public id is the evidence key
type Cloudinary struct {
	up cloudinaryUploader
}

// NewCloudinary builds a Cloudinary backend from account credentials
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Cloudinary{up: &cld.Upload}, nil
}

// Upload sends r to Cloudinary under key
func (c *Cloudinary) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	res, err := c.up.Upload(ctx, r, uploader.UploadParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if res.Error.Message != "" {
		return Object{}, fmt.Errorf("failed to upload %s: %s", key, res.Error.Message)
	}
	zap.S().Debugw("uploaded evidence object", "backend", "cloudinary", "key", key, "bytes", size, "contentType", contentType)
	return Object{Key: key, URL: res.SecureURL}, nil
}

// Delete destroys the asset, mapping Cloudinary's "not found" result to ErrObjectNotFound
func (c *Cloudinary) Delete(ctx context.Context, key string) error {
	res, err := c.up.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return ErrObjectNotFound
	default:
		if res.Error.Message != "" {
			return errors.New(res.Error.Message)
		}
		return fmt.Errorf("unexpected destroy result %q for %s", res.Result, key)
	}
}

// List is not offered by the upload API
func (c *Cloudinary) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, ErrListUnsupported
}
