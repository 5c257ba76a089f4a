// handlers/squad_routes.go
package handlers

import (
	"time"

	"hoodie-academy-service/middleware"
	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSquadRoutes(app *fiber.App, squadService *services.SquadService, userService *services.UserService) {
	// roster is public (behind gateway auth only)
	app.Get("/squads", func(c *fiber.Ctx) error {
		squads, err := squadService.ListSquads()
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, squads)
	})

	secured := app.Group("/user", middleware.WalletContextMiddleware(userService))

	secured.Get("/squad", func(c *fiber.Ctx) error {
		user, err := userService.GetUser(walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		remaining := 0
		if user.SquadLockEndDate != nil {
			remaining = services.RemainingLockDays(*user.SquadLockEndDate, time.Now())
		}
		return respondOK(c, fiber.Map{
			"squad":              user.Squad,
			"squad_id":           user.SquadID,
			"squad_selected_at":  user.SquadSelectedAt,
			"squad_lock_end":     user.SquadLockEndDate,
			"squad_change_count": user.SquadChangeCount,
			"remaining_days":     remaining,
		})
	})

	secured.Post("/squad", func(c *fiber.Ctx) error {
		type Req struct {
			SquadID string `json:"squad_id"`
			Squad   string `json:"squad"` // name fallback, same as the original client
			Renew   bool   `json:"renew"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}
		target := req.SquadID
		if target == "" {
			target = req.Squad
		}
		user, err := squadService.Choose(walletFromCtx(c), target, req.Renew)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, user)
	})
}
