package models

import (
	"time"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:student" json:"role"` // student, instructor, admin
	Group        string `json:"group"`
	University   string `json:"university"`
}

// Enrollment links a user to a course they study.
type Enrollment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"user_id"`
	CourseID   uint      `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type LoginHistory struct {
	Model
	UserID    uint      `gorm:"index" json:"user_id"`
	LoginTime time.Time `json:"login_time"`
}
