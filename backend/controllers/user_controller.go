package controllers

import (
	"strings"
	"time"

	"cursifynova/backend/config"
	"cursifynova/backend/models"
	"cursifynova/backend/services"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Progress     *services.ProgressService
	Certificates *services.CertificateService
}

func NewUserController(db *gorm.DB, cfg *config.Config, progress *services.ProgressService, certs *services.CertificateService) *UserController {
	return &UserController{DB: db, Cfg: cfg, Progress: progress, Certificates: certs}
}

type UpdateUserRequest struct {
	Email       string `json:"email" validate:"omitempty,email" example:"user@example.com"`
	OldPassword string `json:"old_password" example:"oldPassword123"`
	NewPassword string `json:"new_password" validate:"omitempty,min=6" example:"newPassword123"`
	Group       string `json:"group" example:"IU7-42"`
	University  string `json:"university" example:"Bauman MSTU"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the caller with enrolled courses, progress and certificates
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx, who utils.Identity) error {
	var user models.User
	if err := uc.DB.First(&user, who.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	// Courses the user is enrolled in
	courses, err := uc.Progress.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	created := make([]models.Course, 0)
	if err := uc.DB.Where("author_id = ?", user.ID).Order("created_at DESC").Find(&created).Error; err != nil {
		return err
	}

	certs, err := uc.Certificates.ListForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user":            user,
		"enrolled":        courses,
		"created_courses": created,
		"certificates":    certs,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateUserRequest true "Profile update data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx, who utils.Identity) error {
	var input UpdateUserRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	var user models.User
	if err := uc.DB.First(&user, who.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	// Email update
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		var taken int64
		if err := uc.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return utils.BadRequest(c, "Email already taken")
		}
		user.Email = email
	}

	// Password update
	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.Group != "" {
		user.Group = input.Group
	}
	if input.University != "" {
		user.University = input.University
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return err
	}

	return utils.Message(c, "Profile updated successfully", user)
}

// GetUserActivity godoc
// @Summary Get user activity
// @Description Recent logins and lesson completions
// @Tags users
// @Produce json
// @Param days query int false "Number of days to look back" default(7)
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/activity [get]
func (uc *UserController) GetUserActivity(c *fiber.Ctx, who utils.Identity) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		return utils.BadRequest(c, "days must be between 1 and 365")
	}
	since := time.Now().AddDate(0, 0, -days)

	logins := make([]models.LoginHistory, 0)
	if err := uc.DB.Where("user_id = ? AND login_time >= ?", who.UserID, since).
		Order("login_time DESC").
		Find(&logins).Error; err != nil {
		return err
	}

	var completions []struct {
		CourseID    uint      `json:"course_id"`
		LessonID    uint      `json:"lesson_id"`
		CompletedAt time.Time `json:"completed_at"`
	}
	err := uc.DB.Model(&models.ProgressLesson{}).
		Select("progresses.course_id, progress_lessons.lesson_id, progress_lessons.completed_at").
		Joins("JOIN progresses ON progresses.id = progress_lessons.progress_id").
		Where("progresses.user_id = ? AND progress_lessons.completed_at >= ?", who.UserID, since).
		Order("progress_lessons.completed_at DESC").
		Scan(&completions).Error
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"logins":      logins,
		"completions": completions,
		"period_days": days,
	})
}
