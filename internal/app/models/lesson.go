package models

// Lesson belongs to a chapter and may carry uploaded resources
type Lesson struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ChapterID   int64      `json:"chapterId"`
	Attachments []Resource `json:"attachments,omitempty"`
}

// Chapter groups lessons
type Chapter struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons,omitempty"`
}
