package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

const (
	LessonText  = "text"
	LessonVideo = "video"
	LessonQuiz  = "quiz"
)

type Course struct {
	Model
	Title       string                      `gorm:"not null" json:"title"`
	ShortDesc   string                      `json:"short_desc"`
	Description string                      `json:"description"`
	AuthorID    uint                        `gorm:"index" json:"author_id"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Level       string                      `gorm:"default:beginner" json:"level"` // beginner, intermediate, advanced
	Price       float64                     `json:"price"`
	Premium     bool                        `json:"premium"`
	Rating      float64                     `json:"rating"`
	Published   bool                        `gorm:"index" json:"published"`
	Modules     []Module                    `json:"modules,omitempty"`
}

type Module struct {
	Model
	CourseID    uint     `gorm:"index;not null" json:"course_id"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `json:"description"`
	Position    int      `json:"position"`
	Lessons     []Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	Model
	ModuleID  uint                        `gorm:"index;not null" json:"module_id"`
	Title     string                      `gorm:"not null" json:"title"`
	Kind      string                      `gorm:"default:text" json:"kind"` // text, video, quiz
	Content   string                      `json:"content"`
	VideoURL  string                      `json:"video_url,omitempty"`
	Duration  string                      `json:"duration"`
	Position  int                         `json:"position"`
	Free      bool                        `json:"free"`
	Resources datatypes.JSONSlice[string] `json:"resources"`
}

// Certificate is issued once per user and course after full completion.
type Certificate struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_certificate_user_course;not null" json:"user_id"`
	CourseID    uint      `gorm:"uniqueIndex:idx_certificate_user_course;not null" json:"course_id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	DownloadURL string    `json:"download_url"`
	IssuedAt    time.Time `json:"issued_at"`
}
