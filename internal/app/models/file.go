package models

import "strings"

// ResourceType represents the kind of file attached to a lesson
type ResourceType string

const (
	ResourceVideo ResourceType = "VIDEO"
	ResourcePDF   ResourceType = "PDF"
	ResourceDOCX  ResourceType = "DOCX"
	ResourceSlide ResourceType = "SLIDE"
	ResourceImage ResourceType = "IMAGE"
)

// ResourceTypes lists every accepted type
var ResourceTypes = []ResourceType{ResourceVideo, ResourcePDF, ResourceDOCX, ResourceSlide, ResourceImage}

// Valid reports whether t is a known resource type
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// UploadPath is the binary upload sub-path for the type: videos go to /video, everything else to /slide
func (t ResourceType) UploadPath() string {
	if t == ResourceVideo {
		return "video"
	}
	return "slide"
}

// ResourceTypeFromFilename guesses the type from a file extension
func ResourceTypeFromFilename(name string) ResourceType {
	lower := strings.ToLower(name)
	switch {
	case hasAnySuffix(lower, ".mp4", ".mov", ".webm", ".mkv", ".avi"):
		return ResourceVideo
	case strings.HasSuffix(lower, ".pdf"):
		return ResourcePDF
	case hasAnySuffix(lower, ".doc", ".docx"):
		return ResourceDOCX
	case hasAnySuffix(lower, ".png", ".jpg", ".jpeg", ".gif", ".webp"):
		return ResourceImage
	default:
		return ResourceSlide
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// Resource is an uploaded file bound to a lesson.
// It is created as a metadata record first; URL is filled once the binary is uploaded.
type Resource struct {
	ID       int64        `json:"id"`
	LessonID int64        `json:"lessonId"`
	Title    string       `json:"title"`
	URL      string       `json:"url,omitempty"`
	Type     ResourceType `json:"type"`
}
