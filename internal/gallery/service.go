package gallery

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
	"github.com/nuitdor/booking-backend/internal/pkg/storage"
)

var (
	ErrNotImage      = apperror.New(http.StatusBadRequest, "uploaded file is not an image")
	ErrPhotoNotFound = apperror.New(http.StatusNotFound, "photo not found")
)

// Photo is one gallery entry served from the uploads directory.
type Photo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Service manages the public photo gallery. Uploads are resized to the
// configured max width and stored as JPEG under a random name.
type Service struct {
	storage  storage.Storage
	imgProc  *storage.ImageProcessor
	maxWidth int
	baseURL  string
}

func NewService(store storage.Storage, maxWidth int, baseURL string) *Service {
	return &Service{
		storage:  store,
		imgProc:  storage.NewImageProcessor(),
		maxWidth: maxWidth,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *Service) Upload(ctx context.Context, header *multipart.FileHeader) (*Photo, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	resized, err := s.imgProc.ResizeToWidth(src, s.maxWidth)
	if err != nil {
		return nil, ErrNotImage
	}

	name := uuid.New().String() + ".jpg"
	if err := s.storage.Save(ctx, name, resized); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	return s.photo(name), nil
}

func (s *Service) List(ctx context.Context) ([]*Photo, error) {
	names, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	photos := make([]*Photo, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg", ".png", ".webp":
			photos = append(photos, s.photo(name))
		}
	}
	return photos, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	// Uploads are flat uuid.jpg names; anything else is not ours.
	if name == "" || name != filepath.Base(name) {
		return ErrPhotoNotFound
	}

	f, err := s.storage.Get(ctx, name)
	if err != nil {
		return ErrPhotoNotFound
	}
	f.Close()

	return s.storage.Delete(ctx, name)
}

func (s *Service) photo(name string) *Photo {
	return &Photo{
		Name: name,
		URL:  s.baseURL + "/uploads/" + name,
	}
}
