package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cursifynova/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Eligibility answers whether a user may receive a course certificate.
type Eligibility struct {
	Eligible bool `json:"eligible"`
	Summary
	Certificate *models.Certificate `json:"certificate,omitempty"`
}

// VerifiedCertificate is the public view of a certificate looked up by code.
type VerifiedCertificate struct {
	Code        string    `json:"code"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	UserName    string    `json:"user_name"`
	IssuedAt    time.Time `json:"issued_at"`
	DownloadURL string    `json:"download_url"`
}

type CertificateService struct {
	db       *gorm.DB
	progress *ProgressService
	baseURL  string
	now      func() time.Time
	newCode  func() string
}

func NewCertificateService(db *gorm.DB, progress *ProgressService, baseURL string) *CertificateService {
	return &CertificateService{
		db:       db,
		progress: progress,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		newCode:  func() string { return uuid.NewString() },
	}
}

// Eligibility recomputes the user's progress on the course. A user who never
// started the course is not eligible and no progress record is created.
func (s *CertificateService) Eligibility(ctx context.Context, userID, courseID uint) (*Eligibility, error) {
	db := s.db.WithContext(ctx)
	if _, err := findCourse(db, courseID); err != nil {
		return nil, err
	}

	started, err := hasProgress(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !started {
		total, err := countCourseLessons(db, courseID)
		if err != nil {
			return nil, err
		}
		return &Eligibility{Summary: Summary{TotalCount: total}}, nil
	}

	_, summary, err := s.progress.Recompute(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	res := &Eligibility{Eligible: summary.Complete(), Summary: summary}

	cert, err := s.find(db, userID, courseID)
	if err != nil && !errors.Is(err, ErrCertificateNotFound) {
		return nil, err
	}
	res.Certificate = cert
	return res, nil
}

// Generate issues the certificate for a completed course. An existing
// certificate is returned as is with created == false.
func (s *CertificateService) Generate(ctx context.Context, userID, courseID uint) (cert *models.Certificate, created bool, err error) {
	db := s.db.WithContext(ctx)
	if _, err := findCourse(db, courseID); err != nil {
		return nil, false, err
	}

	cert, err = s.find(db, userID, courseID)
	if err == nil {
		return cert, false, nil
	}
	if !errors.Is(err, ErrCertificateNotFound) {
		return nil, false, err
	}

	started, err := hasProgress(db, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if !started {
		return nil, false, ErrNotEligible
	}

	_, summary, err := s.progress.Recompute(ctx, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if !summary.Complete() {
		return nil, false, ErrNotEligible
	}

	code := s.newCode()
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Certificate{
		UserID:      userID,
		CourseID:    courseID,
		Code:        code,
		DownloadURL: s.downloadURL(code),
		IssuedAt:    s.now(),
	})
	if res.Error != nil {
		return nil, false, fmt.Errorf("issue certificate: %w", res.Error)
	}

	// A concurrent request may have issued it first; the stored row wins.
	cert, err = s.find(db, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	return cert, res.RowsAffected > 0 && cert.Code == code, nil
}

// Verify looks a certificate up by its public code.
func (s *CertificateService) Verify(ctx context.Context, code string) (*VerifiedCertificate, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCertificateNotFound
	}

	var out VerifiedCertificate
	res := s.db.WithContext(ctx).
		Table("certificates").
		Select("certificates.code, certificates.course_id, certificates.issued_at, certificates.download_url, " +
			"courses.title AS course_title, users.username AS user_name").
		Joins("LEFT JOIN courses ON courses.id = certificates.course_id").
		Joins("LEFT JOIN users ON users.id = certificates.user_id").
		Where("certificates.code = ?", code).
		Limit(1).
		Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCertificateNotFound
	}
	return &out, nil
}

// ListForUser returns the user's certificates, newest first.
func (s *CertificateService) ListForUser(ctx context.Context, userID uint) ([]models.Certificate, error) {
	certs := make([]models.Certificate, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC, id DESC").
		Find(&certs).Error
	return certs, err
}

func (s *CertificateService) find(db *gorm.DB, userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &cert, nil
}

func (s *CertificateService) downloadURL(code string) string {
	return s.baseURL + "/" + code + "/download"
}

// hasProgress reports whether the user has opened the course, without
// opening it.
func hasProgress(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Progress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
