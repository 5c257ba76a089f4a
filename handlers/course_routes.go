// handlers/course_routes.go
package handlers

import (
	"hoodie-academy-service/middleware"
	"hoodie-academy-service/models"
	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App, courseService *services.CourseService, progressService *services.ProgressService, userService *services.UserService) {
	app.Get("/courses", func(c *fiber.Ctx) error {
		courses, err := courseService.ListCourses(c.Query("squad_id"), false)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, courses)
	})

	app.Get("/courses/:slug", func(c *fiber.Ctx) error {
		course, err := courseService.GetCourse(c.Params("slug"))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, course)
	})

	secured := app.Group("/courses/:slug/progress", middleware.WalletContextMiddleware(userService))

	secured.Get("/", func(c *fiber.Ctx) error {
		prog, err := progressService.Get(walletFromCtx(c), c.Params("slug"))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, prog)
	})

	// merge a single (lesson_index, status) pair; siblings are untouched
	secured.Patch("/", func(c *fiber.Ctx) error {
		type Req struct {
			LessonIndex int                 `json:"lesson_index"`
			Status      models.LessonStatus `json:"status"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}
		prog, err := progressService.UpdateLesson(walletFromCtx(c), c.Params("slug"), req.LessonIndex, req.Status)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, prog)
	})

	// replace the full lesson_data array (client bulk sync)
	secured.Put("/", func(c *fiber.Ctx) error {
		type Req struct {
			LessonData models.LessonData `json:"lesson_data"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}
		prog, err := progressService.ReplaceLessons(walletFromCtx(c), c.Params("slug"), req.LessonData)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, prog)
	})

	userSecured := app.Group("/user", middleware.WalletContextMiddleware(userService))
	userSecured.Get("/progress", func(c *fiber.Ctx) error {
		rows, err := progressService.ListForWallet(walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, rows)
	})
}
