package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cursifynova/backend/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listConcurrency bounds parallel recomputes when listing a user's courses.
const listConcurrency = 4

// Summary is the result of one recompute.
type Summary struct {
	CompletedCount int64   `json:"completed_count"`
	TotalCount     int64   `json:"total_count"`
	Percentage     float64 `json:"percentage"`
}

// Complete reports whether the course counts as finished.
func (s Summary) Complete() bool {
	return s.Percentage >= 100
}

// Percentage is completed/total*100, or 0 for a course without lessons.
func Percentage(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

type ModuleProgress struct {
	ModuleID       uint    `json:"module_id"`
	Title          string  `json:"title"`
	CompletedCount int64   `json:"completed_count"`
	TotalCount     int64   `json:"total_count"`
	Percentage     float64 `json:"percentage"`
}

// CourseProgress is the detailed view of one progress record.
type CourseProgress struct {
	Progress         *models.Progress `json:"progress"`
	CourseTitle      string           `json:"course_title"`
	Summary          Summary          `json:"summary"`
	CompletedLessons []uint           `json:"completed_lessons"`
	Modules          []ModuleProgress `json:"modules"`
	AlreadyCompleted bool             `json:"already_completed,omitempty"`
}

type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db, now: time.Now}
}

// Enroll registers the user on a course and opens its progress record.
func (s *ProgressService) Enroll(ctx context.Context, userID, courseID uint) (*models.Progress, error) {
	if _, err := findCourse(s.db.WithContext(ctx), courseID); err != nil {
		return nil, err
	}

	var progress *models.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.ensureEnrollment(tx, userID, courseID)
		if err != nil {
			return err
		}
		if !created {
			return ErrAlreadyEnrolled
		}
		progress, err = s.ensureProgress(tx, userID, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Recompute refreshes the stored percentage of the user's progress on a
// course, creating the record if it does not exist yet.
func (s *ProgressService) Recompute(ctx context.Context, userID, courseID uint) (*models.Progress, Summary, error) {
	if _, err := findCourse(s.db.WithContext(ctx), courseID); err != nil {
		return nil, Summary{}, err
	}

	var (
		progress *models.Progress
		summary  Summary
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.ensureProgress(tx, userID, courseID)
		if err != nil {
			return err
		}
		if progress, err = lockProgress(tx, p.ID); err != nil {
			return err
		}
		summary, err = recompute(tx, progress)
		return err
	})
	if err != nil {
		return nil, Summary{}, err
	}
	return progress, summary, nil
}

// Get recomputes and returns the detailed progress of an enrolled user.
func (s *ProgressService) Get(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	db := s.db.WithContext(ctx)
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	var progress *models.Progress
	var summary Summary
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.Progress
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEnrolled
			}
			return err
		}
		if progress, err = lockProgress(tx, existing.ID); err != nil {
			return err
		}
		summary, err = recompute(tx, progress)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.detail(db, course, progress, summary)
}

// CompleteLesson adds the lesson to the user's completed set. Completing the
// same lesson twice leaves counts, percentage and activity untouched.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, lessonID uint) (*CourseProgress, error) {
	db := s.db.WithContext(ctx)

	var lesson models.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	var module models.Module
	if err := db.First(&module, lesson.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	course, err := findCourse(db, module.CourseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	var (
		progress *models.Progress
		summary  Summary
		added    bool
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.ensureEnrollment(tx, userID, course.ID); err != nil {
			return err
		}
		p, err := s.ensureProgress(tx, userID, course.ID)
		if err != nil {
			return err
		}
		if progress, err = lockProgress(tx, p.ID); err != nil {
			return err
		}

		now := s.now()
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ProgressLesson{
			ProgressID:  progress.ID,
			LessonID:    lesson.ID,
			CompletedAt: now,
		})
		if res.Error != nil {
			return fmt.Errorf("add completed lesson: %w", res.Error)
		}
		added = res.RowsAffected > 0

		if added {
			lastLesson := lesson.ID
			if err := tx.Model(progress).UpdateColumns(map[string]interface{}{
				"last_lesson_id":   lastLesson,
				"last_activity_at": now,
			}).Error; err != nil {
				return err
			}
			progress.LastLessonID = &lastLesson
			progress.LastActivityAt = now
		}

		summary, err = recompute(tx, progress)
		return err
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.detail(db, course, progress, summary)
	if err != nil {
		return nil, err
	}
	detail.AlreadyCompleted = !added
	return detail, nil
}

// ListItem is one row of a user's progress overview.
type ListItem struct {
	CourseID       uint       `json:"course_id"`
	CourseTitle    string     `json:"course_title"`
	Summary        Summary    `json:"summary"`
	LastLessonID   *uint      `json:"last_lesson_id"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

// List recomputes every progress record of the user whose course still exists.
func (s *ProgressService) List(ctx context.Context, userID uint) ([]ListItem, error) {
	db := s.db.WithContext(ctx)

	var rows []struct {
		ID             uint
		CourseID       uint
		LastLessonID   *uint
		StartedAt      time.Time
		LastActivityAt time.Time
		CourseTitle    string
	}
	err := db.Model(&models.Progress{}).
		Select("progresses.id, progresses.course_id, progresses.last_lesson_id, progresses.started_at, " +
			"progresses.last_activity_at, courses.title AS course_title").
		Joins("JOIN courses ON courses.id = progresses.course_id AND courses.deleted_at IS NULL").
		Where("progresses.user_id = ?", userID).
		Order("progresses.last_activity_at DESC, progresses.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i := range rows {
		i := i
		g.Go(func() error {
			row := rows[i]
			var summary Summary
			err := s.db.WithContext(gctx).Transaction(func(tx *gorm.DB) error {
				p, err := lockProgress(tx, row.ID)
				if err != nil {
					return err
				}
				summary, err = recompute(tx, p)
				return err
			})
			if err != nil {
				return fmt.Errorf("recompute course %d: %w", row.CourseID, err)
			}

			item := ListItem{
				CourseID:     row.CourseID,
				CourseTitle:  row.CourseTitle,
				Summary:      summary,
				LastLessonID: row.LastLessonID,
				StartedAt:    row.StartedAt,
			}
			if !row.LastActivityAt.IsZero() {
				at := row.LastActivityAt
				item.LastActivityAt = &at
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ProgressService) ensureEnrollment(tx *gorm.DB, userID, courseID uint) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: s.now(),
	})
	if res.Error != nil {
		return false, fmt.Errorf("enroll: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ensureProgress is the only place a progress record is created.
func (s *ProgressService) ensureProgress(tx *gorm.DB, userID, courseID uint) (*models.Progress, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Progress{
		UserID:    userID,
		CourseID:  courseID,
		StartedAt: s.now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("create progress: %w", err)
	}

	var p models.Progress
	if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// lockProgress re-reads the record under a row lock so concurrent recomputes
// of the same user and course run one after another.
func lockProgress(tx *gorm.DB, id uint) (*models.Progress, error) {
	var p models.Progress
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// recompute counts the course's live lessons and the completed ones among
// them, then persists the percentage even when it did not change.
func recompute(tx *gorm.DB, p *models.Progress) (Summary, error) {
	total, err := countCourseLessons(tx, p.CourseID)
	if err != nil {
		return Summary{}, err
	}

	var completed int64
	err = tx.Model(&models.ProgressLesson{}).
		Joins("JOIN lessons ON lessons.id = progress_lessons.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("progress_lessons.progress_id = ? AND modules.course_id = ?", p.ID, p.CourseID).
		Count(&completed).Error
	if err != nil {
		return Summary{}, fmt.Errorf("count completed lessons: %w", err)
	}

	summary := Summary{
		CompletedCount: completed,
		TotalCount:     total,
		Percentage:     Percentage(completed, total),
	}
	if err := tx.Model(p).UpdateColumn("percentage", summary.Percentage).Error; err != nil {
		return Summary{}, fmt.Errorf("store percentage: %w", err)
	}
	p.Percentage = summary.Percentage
	return summary, nil
}

func countCourseLessons(db *gorm.DB, courseID uint) (int64, error) {
	var total int64
	err := db.Model(&models.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("modules.course_id = ?", courseID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count course lessons: %w", err)
	}
	return total, nil
}

func (s *ProgressService) detail(db *gorm.DB, course *models.Course, p *models.Progress, summary Summary) (*CourseProgress, error) {
	completed := make([]uint, 0)
	err := db.Model(&models.ProgressLesson{}).
		Joins("JOIN lessons ON lessons.id = progress_lessons.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("progress_lessons.progress_id = ? AND modules.course_id = ?", p.ID, p.CourseID).
		Order("progress_lessons.completed_at, progress_lessons.lesson_id").
		Pluck("progress_lessons.lesson_id", &completed).Error
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	var modules []models.Module
	err = db.Where("course_id = ?", course.ID).
		Order("position, id").
		Preload("Lessons", func(q *gorm.DB) *gorm.DB { return q.Order("position, id") }).
		Find(&modules).Error
	if err != nil {
		return nil, err
	}

	breakdown := make([]ModuleProgress, 0, len(modules))
	for _, m := range modules {
		mp := ModuleProgress{ModuleID: m.ID, Title: m.Title, TotalCount: int64(len(m.Lessons))}
		for _, l := range m.Lessons {
			if done[l.ID] {
				mp.CompletedCount++
			}
		}
		mp.Percentage = Percentage(mp.CompletedCount, mp.TotalCount)
		breakdown = append(breakdown, mp)
	}

	return &CourseProgress{
		Progress:         p,
		CourseTitle:      course.Title,
		Summary:          summary,
		CompletedLessons: completed,
		Modules:          breakdown,
	}, nil
}

func findCourse(db *gorm.DB, id uint) (*models.Course, error) {
	var course models.Course
	if err := db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}
