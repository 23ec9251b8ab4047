package models

import "time"

// Progress is the per-user, per-course completion record. Percentage is
// derived from CompletedLessons and refreshed on every recompute.
type Progress struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	UserID           uint             `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"user_id"`
	CourseID         uint             `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"course_id"`
	CompletedLessons []ProgressLesson `json:"completed_lessons,omitempty"`
	LastLessonID     *uint            `json:"last_lesson_id"`
	Percentage       float64          `json:"percentage"`
	StartedAt        time.Time        `json:"started_at"`
	LastActivityAt   time.Time        `json:"last_activity_at"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ProgressLesson is one member of a progress record's completed-lesson set.
type ProgressLesson struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	ProgressID  uint      `gorm:"uniqueIndex:idx_progress_lesson;not null" json:"-"`
	LessonID    uint      `gorm:"uniqueIndex:idx_progress_lesson;not null" json:"lesson_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func (Progress) TableName() string { return "progresses" }

func (ProgressLesson) TableName() string { return "progress_lessons" }
