package routes

import (
	"cursifynova/backend/cache"
	"cursifynova/backend/config"
	"cursifynova/backend/controllers"
	_ "cursifynova/backend/docs"
	"cursifynova/backend/middleware"
	"cursifynova/backend/services"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"gorm.io/gorm"
)

// CoursesPattern matches every cached course list and detail response.
const CoursesPattern = cache.KeyPrefix + "/api/courses*"

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, rc *cache.Cache, logger *utils.Logger) {
	progressService := services.NewProgressService(db)
	certificateService := services.NewCertificateService(db, progressService, cfg.CertificateBaseURL)

	authed := func(h middleware.AuthedHandler) fiber.Handler {
		return middleware.Authed(cfg, h)
	}
	invalidateCourses := middleware.Invalidate(rc, CoursesPattern)

	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := app.Group("/api")

	healthController := controllers.NewHealthController(db, cfg, rc)
	api.Get("/health", healthController.Health)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, logger)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// User routes
	userController := controllers.NewUserController(db, cfg, progressService, certificateService)
	api.Get("/users/profile", authed(userController.GetProfile))
	api.Put("/users/profile", authed(userController.UpdateProfile))
	api.Get("/users/activity", authed(userController.GetUserActivity))

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, progressService)
	api.Get("/courses", middleware.CacheResponse(rc, cfg.CoursesCacheTTL), coursesController.ListCourses)
	api.Get("/courses/:id", middleware.CacheResponse(rc, cfg.CourseCacheTTL), coursesController.GetCourse)
	api.Post("/courses", invalidateCourses, authed(coursesController.CreateCourse))
	api.Put("/courses/:id", invalidateCourses, authed(coursesController.UpdateCourse))
	api.Delete("/courses/:id", invalidateCourses, authed(coursesController.DeleteCourse))
	api.Post("/courses/:id/enroll", authed(coursesController.Enroll))
	api.Post("/courses/:id/modules", invalidateCourses, authed(coursesController.AddModule))
	api.Post("/modules/:id/lessons", invalidateCourses, authed(coursesController.AddLesson))
	api.Delete("/lessons/:id", invalidateCourses, authed(coursesController.DeleteLesson))

	// Progress routes
	progressController := controllers.NewProgressController(cfg, progressService)
	api.Get("/progress/courses", authed(progressController.ListProgress))
	api.Get("/progress/courses/:id", authed(progressController.GetCourseProgress))
	api.Post("/progress/lessons/:id/complete", authed(progressController.CompleteLesson))

	// Certificates routes
	certificateController := controllers.NewCertificateController(cfg, certificateService, logger)
	api.Get("/certificates", authed(certificateController.ListMine))
	api.Get("/certificates/verify/:code", certificateController.Verify)
	api.Get("/certificates/courses/:courseId/eligibility", authed(certificateController.Eligibility))
	api.Post("/certificates/courses/:courseId/generate", authed(certificateController.Generate))

	// Comments routes
	commentsController := controllers.NewCommentsController(db, cfg)
	api.Get("/lessons/:id/comments", commentsController.GetLessonComments)
	api.Post("/lessons/:id/comments", authed(commentsController.AddLessonComment))
	api.Post("/comments/:id/replies", authed(commentsController.AddReply))
	api.Delete("/comments/:id", authed(commentsController.DeleteComment))
}
