package controllers

import (
	"cursifynova/backend/config"
	"cursifynova/backend/services"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CertificateController struct {
	Cfg          *config.Config
	Certificates *services.CertificateService
	Logger       *utils.Logger
}

func NewCertificateController(cfg *config.Config, certs *services.CertificateService, logger *utils.Logger) *CertificateController {
	return &CertificateController{Cfg: cfg, Certificates: certs, Logger: logger}
}

// Eligibility godoc
// @Summary Certificate eligibility
// @Tags certificates
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /certificates/courses/{courseId}/eligibility [get]
func (cc *CertificateController) Eligibility(c *fiber.Ctx, who utils.Identity) error {
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	res, err := cc.Certificates.Eligibility(c.UserContext(), who.UserID, courseID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, res)
}

// Generate godoc
// @Summary Issue certificate
// @Description 201 for a new certificate, 200 when it was issued before, 403 below 100%
// @Tags certificates
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /certificates/courses/{courseId}/generate [post]
func (cc *CertificateController) Generate(c *fiber.Ctx, who utils.Identity) error {
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	cert, created, err := cc.Certificates.Generate(c.UserContext(), who.UserID, courseID)
	if err != nil {
		return serviceError(c, err)
	}
	if !created {
		return utils.Message(c, "Certificate already issued", cert)
	}

	cc.Logger.Info("certificate issued", "user_id", who.UserID, "course_id", courseID, "code", cert.Code)
	return utils.Created(c, cert)
}

// Verify godoc
// @Summary Verify certificate
// @Tags certificates
// @Produce json
// @Param code path string true "Verification code"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /certificates/verify/{code} [get]
func (cc *CertificateController) Verify(c *fiber.Ctx) error {
	cert, err := cc.Certificates.Verify(c.UserContext(), c.Params("code"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"valid":       true,
		"certificate": cert,
	})
}

// ListMine godoc
// @Summary List my certificates
// @Tags certificates
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /certificates [get]
func (cc *CertificateController) ListMine(c *fiber.Ctx, who utils.Identity) error {
	certs, err := cc.Certificates.ListForUser(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, certs)
}
