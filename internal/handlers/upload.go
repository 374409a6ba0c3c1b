package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxImagesPerPost = 4
	maxImageSize     = 5 << 20 // 5 MiB
)

// ImageStore is the blob store images are streamed into.
type ImageStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader) error
}

// imageExtension resolves the stored file extension from the original
// filename, falling back to the declared MIME type.
func imageExtension(file *multipart.FileHeader) (string, error) {
	if idx := strings.LastIndex(file.Filename, "."); idx >= 0 && idx < len(file.Filename)-1 {
		return file.Filename[idx+1:], nil
	}

	switch file.Header.Get("Content-Type") {
	case "image/jpeg":
		return "jpeg", nil
	case "image/png":
		return "png", nil
	case "image/gif":
		return "gif", nil
	case "image/webp":
		return "webp", nil
	}
	return "", fmt.Errorf("unsupported file type")
}

// saveImages streams each uploaded file to the blob store under a random
// name scoped to the uploading user, and returns the stored filenames.
// Client faults come back as *echo.HTTPError; anything else is a storage
// failure.
func saveImages(ctx context.Context, store ImageStore, userID primitive.ObjectID, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > maxImagesPerPost {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Too many images")
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > maxImageSize {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Image too large")
		}

		ext, err := imageExtension(file)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Unsupported file type")
		}

		fileName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)

		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		objectName := fmt.Sprintf("posts/%s/%s", userID.Hex(), fileName)
		err = store.Upload(ctx, objectName, src)
		src.Close()
		if err != nil {
			return nil, err
		}

		names = append(names, fileName)
	}
	return names, nil
}

// formImages pulls the "images" files out of a multipart request. A request
// without a multipart body simply carries no images.
func formImages(c echo.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}
