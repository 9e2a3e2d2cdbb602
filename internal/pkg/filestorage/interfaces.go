package filestorage

import "mime/multipart"

// FileStorage stores uploaded lesson resources
type FileStorage interface {
	// SaveFile stores the upload under subPath and returns its public URL
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file by the URL SaveFile returned
	DeleteFile(fileURL string) error

	// GetFullPath maps a URL returned by SaveFile to its filesystem path
	GetFullPath(fileURL string) string
}
