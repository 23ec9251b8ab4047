package controllers

import (
	"errors"
	"strconv"
	"strings"

	"cursifynova/backend/config"
	"cursifynova/backend/models"
	"cursifynova/backend/services"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *services.ProgressService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, progress *services.ProgressService) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Progress: progress}
}

type CreateCourseRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	ShortDesc   string   `json:"short_desc" validate:"max=500"`
	Description string   `json:"description"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=40"`
	Level       string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price       float64  `json:"price" validate:"min=0"`
	Premium     bool     `json:"premium"`
	Published   bool     `json:"published"`
}

// UpdateCourseRequest only touches the fields present in the body.
type UpdateCourseRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	ShortDesc   *string   `json:"short_desc" validate:"omitempty,max=500"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=40"`
	Level       *string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price       *float64  `json:"price" validate:"omitempty,min=0"`
	Premium     *bool     `json:"premium"`
	Published   *bool     `json:"published"`
	Rating      *float64  `json:"rating" validate:"omitempty,min=0,max=5"`
}

type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Position    int    `json:"position" validate:"min=0"`
}

type CreateLessonRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Kind      string   `json:"kind" validate:"omitempty,oneof=text video quiz"`
	Content   string   `json:"content"`
	VideoURL  string   `json:"video_url" validate:"omitempty,url"`
	Duration  string   `json:"duration"`
	Position  int      `json:"position" validate:"min=0"`
	Free      bool     `json:"free"`
	Resources []string `json:"resources" validate:"dive,url"`
}

// ListCourses godoc
// @Summary List published courses
// @Description Paginated catalog with search, level, tag and premium filters
// @Tags courses
// @Produce json
// @Param search query string false "Title or short description"
// @Param level query string false "beginner, intermediate or advanced"
// @Param tag query string false "Tag"
// @Param premium query bool false "Premium only / free only"
// @Param sort query string false "newest, rating or title"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := cc.DB.Model(&models.Course{}).Where("published = ?", true)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(short_desc) LIKE ? ESCAPE '\'`, like, like)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		query = query.Where(`CAST(tags AS TEXT) LIKE ? ESCAPE '\'`, `%"`+escapeLike(tag)+`"%`)
	}
	if premium := c.Query("premium"); premium != "" {
		p, err := strconv.ParseBool(premium)
		if err != nil {
			return utils.BadRequest(c, "Invalid premium filter")
		}
		query = query.Where("premium = ?", p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	switch c.Query("sort", "newest") {
	case "rating":
		query = query.Order("rating DESC").Order("id")
	case "title":
		query = query.Order("title").Order("id")
	case "newest":
		query = query.Order("created_at DESC").Order("id DESC")
	default:
		return utils.BadRequest(c, "Invalid sort, use newest, rating or title")
	}

	courses := make([]models.Course, 0)
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&courses).Error; err != nil {
		return err
	}

	return utils.Paginate(c, courses, total, page, pageSize)
}

// GetCourse godoc
// @Summary Course details
// @Description Course with its modules and lessons in order
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err := cc.DB.
		Preload("Modules", func(q *gorm.DB) *gorm.DB { return q.Order("position, id") }).
		Preload("Modules.Lessons", func(q *gorm.DB) *gorm.DB { return q.Order("position, id") }).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return err
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// CreateCourse godoc
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param input body CreateCourseRequest true "Course"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx, who utils.Identity) error {
	var input CreateCourseRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	course := models.Course{
		Title:       strings.TrimSpace(input.Title),
		ShortDesc:   input.ShortDesc,
		Description: input.Description,
		AuthorID:    who.UserID,
		Tags:        input.Tags,
		Level:       input.Level,
		Price:       input.Price,
		Premium:     input.Premium,
		Published:   input.Published,
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}
	if course.Tags == nil {
		course.Tags = []string{}
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return err
	}

	return utils.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update course
// @Description Only the author or an admin may edit a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body UpdateCourseRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx, who utils.Identity) error {
	course, err := cc.managedCourse(c, who)
	if course == nil {
		return err
	}

	var input UpdateCourseRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	// Update fields
	if input.Title != nil {
		course.Title = strings.TrimSpace(*input.Title)
	}
	if input.ShortDesc != nil {
		course.ShortDesc = *input.ShortDesc
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Tags != nil {
		course.Tags = *input.Tags
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.Premium != nil {
		course.Premium = *input.Premium
	}
	if input.Published != nil {
		course.Published = *input.Published
	}
	if input.Rating != nil {
		course.Rating = *input.Rating
	}

	if err := cc.DB.Save(course).Error; err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// DeleteCourse godoc
// @Summary Delete course
// @Description Removes the course with its modules and lessons
// @Tags courses
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx, who utils.Identity) error {
	course, err := cc.managedCourse(c, who)
	if course == nil {
		return err
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&models.Module{}).Where("course_id = ?", course.ID).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&models.Lesson{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", moduleIDs).Delete(&models.Module{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return err
	}

	return utils.Message(c, "Course deleted")
}

// Enroll godoc
// @Summary Enroll in course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx, who utils.Identity) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	progress, err := cc.Progress.Enroll(c.UserContext(), who.UserID, courseID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Created(c, progress)
}

// AddModule appends a module to a course the caller manages.
// @Summary Add module
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body CreateModuleRequest true "Module data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/modules [post]
func (cc *CoursesController) AddModule(c *fiber.Ctx, who utils.Identity) error {
	course, err := cc.managedCourse(c, who)
	if course == nil {
		return err
	}

	var input CreateModuleRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	module := models.Module{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	}
	if module.Position == 0 {
		if module.Position, err = nextPosition(cc.DB.Model(&models.Module{}).Where("course_id = ?", course.ID)); err != nil {
			return err
		}
	}

	if err := cc.DB.Create(&module).Error; err != nil {
		return err
	}
	return utils.Created(c, module)
}

// AddLesson appends a lesson to a module of a course the caller manages.
// @Summary Add lesson
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param input body CreateLessonRequest true "Lesson data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /modules/{id}/lessons [post]
func (cc *CoursesController) AddLesson(c *fiber.Ctx, who utils.Identity) error {
	moduleID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := cc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return err
	}
	if handled, err := cc.checkOwner(c, who, module.CourseID); handled {
		return err
	}

	var input CreateLessonRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	lesson := models.Lesson{
		ModuleID:  module.ID,
		Title:     input.Title,
		Kind:      input.Kind,
		Content:   input.Content,
		VideoURL:  input.VideoURL,
		Duration:  input.Duration,
		Position:  input.Position,
		Free:      input.Free,
		Resources: input.Resources,
	}
	if lesson.Kind == "" {
		lesson.Kind = models.LessonText
	}
	if lesson.Resources == nil {
		lesson.Resources = []string{}
	}
	if lesson.Position == 0 {
		var err error
		if lesson.Position, err = nextPosition(cc.DB.Model(&models.Lesson{}).Where("module_id = ?", module.ID)); err != nil {
			return err
		}
	}

	if err := cc.DB.Create(&lesson).Error; err != nil {
		return err
	}
	return utils.Created(c, lesson)
}

// DeleteLesson removes one lesson. Progress records that completed it drop
// it from their counts on the next recompute.
// @Summary Delete lesson
// @Tags courses
// @Param id path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [delete]
func (cc *CoursesController) DeleteLesson(c *fiber.Ctx, who utils.Identity) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := cc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return err
	}
	var module models.Module
	if err := cc.DB.First(&module, lesson.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return err
	}
	if handled, err := cc.checkOwner(c, who, module.CourseID); handled {
		return err
	}

	if err := cc.DB.Delete(&lesson).Error; err != nil {
		return err
	}
	return utils.Message(c, "Lesson deleted")
}

// managedCourse loads the :id course and checks the caller may change it.
// A nil course means the response has been written or err must be returned.
func (cc *CoursesController) managedCourse(c *fiber.Ctx, who utils.Identity) (*models.Course, error) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, err
	}

	// Check if user is author or admin
	if !who.CanManage(course.AuthorID) {
		return nil, utils.Forbidden(c, "You don't have permission to edit this course")
	}
	return &course, nil
}

func (cc *CoursesController) checkOwner(c *fiber.Ctx, who utils.Identity, courseID uint) (handled bool, err error) {
	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, utils.NotFound(c, "Course not found")
		}
		return true, err
	}
	if !who.CanManage(course.AuthorID) {
		return true, utils.Forbidden(c, "You don't have permission to edit this course")
	}
	return false, nil
}

func nextPosition(scope *gorm.DB) (int, error) {
	var last int
	if err := scope.Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last + 1, nil
}
