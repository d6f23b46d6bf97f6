package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

// publicID drops the extension; Cloudinary derives the format itself.
func publicID(p string) string {
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	return strings.TrimSuffix(p, path.Ext(p))
}

func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, p string, contentType string) (Object, error) {
	id := publicID(p)
	if id == "" {
		return Object{}, fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     id,
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return Object{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return Object{}, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return Object{Key: resp.PublicID, URL: resp.SecureURL}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key, Invalidate: api.Bool(true)})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}

func (s *CloudinaryStorage) Exists(ctx context.Context, key string) (bool, error) {
	resp, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: key})
	if err != nil {
		return false, fmt.Errorf("cloudinary asset: %w", err)
	}
	if resp.Error.Message != "" {
		if strings.Contains(strings.ToLower(resp.Error.Message), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("cloudinary asset: %s", resp.Error.Message)
	}
	return resp.PublicID != "", nil
}
