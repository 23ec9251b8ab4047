package services

import "errors"

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrNotEligible         = errors.New("course is not completed yet")
	ErrCertificateNotFound = errors.New("certificate not found")
)
