package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/libraryhub/internal/pkg/logger"
)

// ErrInvalidPath is returned for URLs that do not point inside the storage root
var ErrInvalidPath = errors.New("invalid file path")

// LocalStorage saves uploads to the local filesystem and serves them under baseURL
type LocalStorage struct {
	basePath string // root directory of stored files
	baseURL  string // URL prefix the root is served under, e.g. /uploads
}

// NewLocalStorage creates the root directory if needed
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  "/" + strings.Trim(baseURL, "/"),
	}, nil
}

// SaveFile stores the upload under subPath with a generated name, keeping the extension
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("%w: no file uploaded", ErrInvalidPath)
	}
	subPath = strings.Trim(filepath.ToSlash(filepath.Clean("/"+subPath)), "/")

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := path.Join(ls.baseURL, subPath, name)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Int64("size", fileHeader.Size).Msg("File saved successfully")
	return url, nil
}

// DeleteFile removes a stored file. A file that is already gone is not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return fmt.Errorf("%w: %s", ErrInvalidPath, fileURL)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath maps a stored URL back to the filesystem, or "" if it is outside the root
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := strings.TrimPrefix(path.Clean("/"+fileURL), ls.baseURL+"/")
	if rel == "" || rel == "." || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}

// BasePath is the storage root, used to serve the files statically
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// BaseURL is the URL prefix stored files are served under
func (ls *LocalStorage) BaseURL() string {
	return ls.baseURL
}
