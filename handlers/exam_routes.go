// handlers/exam_routes.go
package handlers

import (
	"strconv"

	"hoodie-academy-service/middleware"
	"hoodie-academy-service/models"
	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupExamRoutes(app *fiber.App, examService *services.ExamService, userService *services.UserService) {
	app.Get("/exams/:id", func(c *fiber.Ctx) error {
		exam, err := examService.GetExam(c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, exam)
	})

	secured := app.Group("/", middleware.WalletContextMiddleware(userService))

	secured.Post("/exams/:id/submit", func(c *fiber.Ctx) error {
		type Req struct {
			Answers models.JSONMap `json:"answers"`
			Score   *int           `json:"score"` // client-computed; fallback is answered/total
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}
		result, err := examService.Submit(walletFromCtx(c), c.Params("id"), req.Answers, req.Score)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, result)
	})

	secured.Get("/user/exam-submissions", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		rows, err := examService.SubmissionsForWallet(walletFromCtx(c), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, rows)
	})
}
