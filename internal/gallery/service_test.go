package gallery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuitdor/booking-backend/internal/pkg/storage"
)

func pngHeader(t *testing.T, width, height int) *multipart.FileHeader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="photo"; filename="photo.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["photo"][0]
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewService(store, 100, "http://localhost:8080")
}

func TestUploadAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	photo, err := svc.Upload(ctx, pngHeader(t, 40, 30))
	require.NoError(t, err)
	assert.NotEmpty(t, photo.Name)
	assert.Contains(t, photo.URL, "/uploads/"+photo.Name)

	photos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, photo.Name, photos[0].Name)
}

func TestUploadResizesWideImages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	photo, err := svc.Upload(ctx, pngHeader(t, 400, 200))
	require.NoError(t, err)

	rc, err := svc.storage.Get(ctx, photo.Name)
	require.NoError(t, err)
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := newTestService(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="photo"; filename="notes.txt"`},
		"Content-Type":        {"text/plain"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	_, err = svc.Upload(context.Background(), form.File["photo"][0])
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	photo, err := svc.Upload(ctx, pngHeader(t, 40, 30))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, photo.Name))

	photos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestDeleteUnknown(t *testing.T) {
	svc := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing.jpg"), ErrPhotoNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "../escape.jpg"), ErrPhotoNotFound)
}
