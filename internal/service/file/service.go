package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadSize caps the bytes read from an upload.
	MaxUploadSize = 5 << 20

	// MaxAvatarDimension is the longest edge of a stored avatar.
	MaxAvatarDimension = 512
)

var ErrInvalidImage = errors.New("file must be a JPEG or PNG image")

type FileService interface {
	// UploadAvatar stores an employee avatar, downscaled to MaxAvatarDimension.
	UploadAvatar(ctx context.Context, employeeID string, file io.Reader, contentType string) (storage.Object, error)

	// UploadCompanyLogo stores a company logo unchanged.
	UploadCompanyLogo(ctx context.Context, companyID string, file io.Reader, contentType string) (storage.Object, error)

	DeleteFile(ctx context.Context, key string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func extensionFor(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	}
	return "", ErrInvalidImage
}

func readLimited(file io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(buf) > MaxUploadSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, MaxUploadSize)
	}
	return buf, nil
}

// UploadAvatar implements FileService.
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, employeeID string, file io.Reader, contentType string) (storage.Object, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return storage.Object{}, err
	}

	buf, err := readLimited(file)
	if err != nil {
		return storage.Object{}, err
	}

	resized, err := normalizeImage(buf, ext, MaxAvatarDimension)
	if err != nil {
		return storage.Object{}, err
	}

	key := path.Join("avatars", employeeID, uuid.NewString()+ext)
	obj, err := s.storage.Upload(ctx, bytes.NewReader(resized), key, contentType)
	if err != nil {
		return storage.Object{}, fmt.Errorf("failed to upload avatar: %w", err)
	}
	return obj, nil
}

// UploadCompanyLogo implements FileService.
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, companyID string, file io.Reader, contentType string) (storage.Object, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return storage.Object{}, err
	}

	buf, err := readLimited(file)
	if err != nil {
		return storage.Object{}, err
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(buf)); err != nil {
		return storage.Object{}, ErrInvalidImage
	}

	key := path.Join("logos", companyID, uuid.NewString()+ext)
	obj, err := s.storage.Upload(ctx, bytes.NewReader(buf), key, contentType)
	if err != nil {
		return storage.Object{}, fmt.Errorf("failed to upload company logo: %w", err)
	}
	return obj, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// normalizeImage decodes buf and, when either edge exceeds maxDim, scales it down
// keeping the aspect ratio. The output keeps the input format.
func normalizeImage(buf []byte, ext string, maxDim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, ErrInvalidImage
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return buf, nil
	}

	newWidth, newHeight := fitWithin(width, height, maxDim)
	resized := resizeImage(img, newWidth, newHeight)

	out := new(bytes.Buffer)
	if ext == ".png" {
		err = png.Encode(out, resized)
	} else {
		err = jpeg.Encode(out, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return out.Bytes(), nil
}

// fitWithin scales width and height so the longest edge equals maxDim.
func fitWithin(width, height, maxDim int) (int, int) {
	if width >= height {
		h := height * maxDim / width
		if h < 1 {
			h = 1
		}
		return maxDim, h
	}
	w := width * maxDim / height
	if w < 1 {
		w = 1
	}
	return w, maxDim
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// CatmullRom for downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
