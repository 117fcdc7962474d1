package lib

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mvjl000/socnet-backend/src/apperror"
)

// UploadsPrefix is the URL prefix the upload directory is served under.
const UploadsPrefix = "/uploads"

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
	"image/jpg":  ".jpg",
}

// Uploader stores user images below Dir/images.
type Uploader struct {
	Dir string
}

// SaveImage stores fh under a random name and returns the public path,
// e.g. "uploads/images/<uuid>.png".
func (u *Uploader) SaveImage(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(fh.Header.Get("Content-Type"))]
	if !ok {
		return "", apperror.New(apperror.Validation, "Invalid mime type, only png and jpeg images are allowed.")
	}

	dir := filepath.Join(u.Dir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperror.Wrap(err, "Could not store the image.")
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		return "", apperror.Wrap(err, "Could not store the image.")
	}
	return strings.TrimPrefix(UploadsPrefix, "/") + "/images/" + name, nil
}

// Remove deletes a file previously returned by SaveImage.
func (u *Uploader) Remove(path string) error {
	rel := strings.TrimPrefix(path, strings.TrimPrefix(UploadsPrefix, "/")+"/")
	if rel == path || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(u.Dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
