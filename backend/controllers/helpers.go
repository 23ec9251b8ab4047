package controllers

import (
	"errors"
	"strconv"
	"strings"

	"cursifynova/backend/services"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// serviceError maps service sentinels to responses. Anything else goes to
// the app error handler.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrModuleNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrCertificateNotFound),
		errors.Is(err, services.ErrNotEnrolled):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotEligible):
		return utils.Forbidden(c, err.Error())
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
