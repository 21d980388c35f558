package persistence

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotAnImage is returned for uploads that do not sniff as image content.
var ErrNotAnImage = errors.New("uploaded file is not an image")

// UploadStore persists issue photos on local disk and serves them back
// under the /uploads URL prefix.
type UploadStore struct {
	dir string
}

// NewUploadStore ensures the uploads directory exists.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// Store writes the uploaded file under a unique timestamped name and
// returns its public path (/uploads/<filename>).
func (s *UploadStore) Store(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	ext := extensionFor(contentType, fileHeader.Filename)
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	dest, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// Delete removes a previously stored file by its public path.
func (s *UploadStore) Delete(publicPath string) error {
	name := filepath.Base(strings.TrimPrefix(publicPath, "/uploads/"))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid upload path %q", publicPath)
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// Dir returns the backing directory, used for static serving.
func (s *UploadStore) Dir() string {
	return s.dir
}

func extensionFor(contentType, original string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	}
	if ext := filepath.Ext(original); ext != "" {
		return ext
	}
	return ".img"
}
