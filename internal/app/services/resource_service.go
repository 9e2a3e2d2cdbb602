package services

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apiclient"
)

// ResourceService handles lesson attachments. A resource is created as a
// metadata record first and its binary is uploaded in a second call.
type ResourceService interface {
	List(ctx context.Context, lessonID int64) ([]models.Resource, error)
	Create(ctx context.Context, lessonID int64, meta dto.CreateResourceRequest) (*models.Resource, error)
	Upload(ctx context.Context, resourceID int64, resourceType models.ResourceType, fileName string, r io.Reader) (*models.Resource, error)
	Delete(ctx context.Context, resourceID int64) (*dto.SuccessResponse, error)
}

type resourceService struct {
	exec   Executor
	logger zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(exec Executor, logger zerolog.Logger) ResourceService {
	return &resourceService{exec: exec, logger: logger}
}

func (s *resourceService) List(ctx context.Context, lessonID int64) ([]models.Resource, error) {
	var resources []models.Resource
	req := authRequest(http.MethodGet, idPath("/lessons/%d/resources", lessonID), nil, "Could not load resources")
	if err := s.exec.Do(ctx, req, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (s *resourceService) Create(ctx context.Context, lessonID int64, meta dto.CreateResourceRequest) (*models.Resource, error) {
	var resource models.Resource
	req := authRequest(http.MethodPost, idPath("/lessons/%d/resources", lessonID), meta, "Could not create resource")
	if err := s.exec.Do(ctx, req, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// Upload streams the binary to resources/{id}/video for videos and resources/{id}/slide otherwise
func (s *resourceService) Upload(ctx context.Context, resourceID int64, resourceType models.ResourceType, fileName string, r io.Reader) (*models.Resource, error) {
	req := authRequest(http.MethodPost, idPath("/resources/%d/", resourceID)+resourceType.UploadPath(), nil, "Upload failed")
	req.File = &apiclient.FilePart{
		FileName:    filepath.Base(fileName),
		ContentType: mime.TypeByExtension(filepath.Ext(fileName)),
		Reader:      r,
	}

	var resource models.Resource
	if err := s.exec.Do(ctx, req, &resource); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("resourceId", resourceID).Str("type", string(resourceType)).Msg("Resource uploaded")
	return &resource, nil
}

func (s *resourceService) Delete(ctx context.Context, resourceID int64) (*dto.SuccessResponse, error) {
	var out dto.SuccessResponse
	req := authRequest(http.MethodDelete, idPath("/resources/%d", resourceID), nil, "Could not delete resource")
	if err := s.exec.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
