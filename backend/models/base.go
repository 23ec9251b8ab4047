package models

import (
	"time"

	"gorm.io/gorm"
)

// Model is gorm.Model with JSON names the API exposes.
type Model struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&LoginHistory{},
		&Course{},
		&Module{},
		&Lesson{},
		&Enrollment{},
		&Progress{},
		&ProgressLesson{},
		&Comment{},
		&CommentReply{},
		&Certificate{},
	}
}
