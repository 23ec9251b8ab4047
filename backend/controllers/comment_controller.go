package controllers

import (
	"errors"
	"strings"

	"cursifynova/backend/config"
	"cursifynova/backend/models"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCommentsController(db *gorm.DB, cfg *config.Config) *CommentsController {
	return &CommentsController{DB: db, Cfg: cfg}
}

// AddCommentRequest defines the request body for comments and replies
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000" example:"Great explanation of channels!"`
}

// AddLessonComment godoc
// @Summary Add comment to lesson
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param input body AddCommentRequest true "Comment data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/comments [post]
func (cc *CommentsController) AddLessonComment(c *fiber.Ctx, who utils.Identity) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input AddCommentRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	var lesson models.Lesson
	if err := cc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return err
	}

	// Get user info
	var user models.User
	if err := cc.DB.First(&user, who.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	comment := models.Comment{
		LessonID: lesson.ID,
		UserID:   user.ID,
		UserName: user.Username,
		Text:     strings.TrimSpace(input.Text),
		Replies:  []models.CommentReply{},
	}
	if err := cc.DB.Create(&comment).Error; err != nil {
		return err
	}

	return utils.Created(c, comment)
}

// GetLessonComments godoc
// @Summary Get lesson comments
// @Description Returns all comments for a lesson with their replies
// @Tags comments
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /lessons/{id}/comments [get]
func (cc *CommentsController) GetLessonComments(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	comments := make([]models.Comment, 0)
	result := cc.DB.
		Preload("Replies", func(q *gorm.DB) *gorm.DB { return q.Order("created_at, id") }).
		Where("lesson_id = ?", lessonID).
		Order("created_at, id").
		Find(&comments)
	if result.Error != nil {
		return result.Error
	}

	return utils.Success(c, fiber.StatusOK, comments)
}

// AddReply godoc
// @Summary Reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param input body AddCommentRequest true "Reply text"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /comments/{id}/replies [post]
func (cc *CommentsController) AddReply(c *fiber.Ctx, who utils.Identity) error {
	commentID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	var input AddCommentRequest
	if handled, err := utils.ParseAndValidate(c, &input); handled {
		return err
	}

	var comment models.Comment
	if err := cc.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Comment not found")
		}
		return err
	}

	var user models.User
	if err := cc.DB.First(&user, who.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	reply := models.CommentReply{
		CommentID: comment.ID,
		UserID:    user.ID,
		UserName:  user.Username,
		Text:      strings.TrimSpace(input.Text),
	}
	if err := cc.DB.Create(&reply).Error; err != nil {
		return err
	}

	return utils.Created(c, reply)
}

// DeleteComment removes a comment and its replies. Only the author or an
// admin may do it.
// @Summary Delete comment
// @Tags comments
// @Param id path int true "Comment ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /comments/{id} [delete]
func (cc *CommentsController) DeleteComment(c *fiber.Ctx, who utils.Identity) error {
	commentID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	var comment models.Comment
	if err := cc.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Comment not found")
		}
		return err
	}
	if !who.CanManage(comment.UserID) {
		return utils.Forbidden(c, "You can only delete your own comments")
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentReply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return err
	}

	return utils.Message(c, "Comment deleted")
}
