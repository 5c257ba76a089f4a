package handlers

import (
	"strconv"

	"hoodie-academy-service/middleware"
	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, xpService *services.XPService, courseService *services.CourseService) {
	secured := app.Group("/user", middleware.WalletContextMiddleware(userService))

	secured.Get("/profile", func(c *fiber.Ctx) error {
		user, err := userService.GetUser(walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, user)
	})

	secured.Put("/profile", func(c *fiber.Ctx) error {
		type Req struct {
			DisplayName string `json:"display_name"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}
		user, err := userService.SetDisplayName(walletFromCtx(c), req.DisplayName)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, user)
	})

	secured.Get("/xp/history", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		events, err := xpService.History(walletFromCtx(c), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, events)
	})

	secured.Post("/xp/daily-claim", func(c *fiber.Ctx) error {
		result, err := xpService.ClaimDaily(walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, result)
	})

	secured.Get("/completions", func(c *fiber.Ctx) error {
		completions, err := courseService.CompletionsForWallet(walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, completions)
	})
}
