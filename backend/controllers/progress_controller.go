package controllers

import (
	"cursifynova/backend/config"
	"cursifynova/backend/services"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Cfg      *config.Config
	Progress *services.ProgressService
}

func NewProgressController(cfg *config.Config, progress *services.ProgressService) *ProgressController {
	return &ProgressController{Cfg: cfg, Progress: progress}
}

// ListProgress godoc
// @Summary Progress on all courses
// @Description Recomputes and returns the caller's progress on every course that still exists
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/courses [get]
func (pc *ProgressController) ListProgress(c *fiber.Ctx, who utils.Identity) error {
	items, err := pc.Progress.List(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, items)
}

// GetCourseProgress godoc
// @Summary Progress on one course
// @Tags progress
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/courses/{id} [get]
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx, who utils.Identity) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	detail, err := pc.Progress.Get(c.UserContext(), who.UserID, courseID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, detail)
}

// CompleteLesson godoc
// @Summary Mark lesson completed
// @Description Idempotent; completing a lesson twice leaves the progress unchanged
// @Tags progress
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/lessons/{id}/complete [post]
func (pc *ProgressController) CompleteLesson(c *fiber.Ctx, who utils.Identity) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	detail, err := pc.Progress.CompleteLesson(c.UserContext(), who.UserID, lessonID)
	if err != nil {
		return serviceError(c, err)
	}

	msg := "Lesson completed"
	if detail.AlreadyCompleted {
		msg = "Lesson already completed"
	}
	return utils.Message(c, msg, detail)
}
