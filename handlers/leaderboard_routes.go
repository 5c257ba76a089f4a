package handlers

import (
	"strconv"

	"hoodie-academy-service/middleware"
	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, userService *services.UserService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		ranked, err := leaderboardService.Top(c.Context(), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, ranked)
	})

	secured := app.Group("/user", middleware.WalletContextMiddleware(userService))
	secured.Get("/rank", func(c *fiber.Ctx) error {
		rank, err := leaderboardService.RankOf(c.Context(), walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, fiber.Map{"rank": rank})
	})
}
