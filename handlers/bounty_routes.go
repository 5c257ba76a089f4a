// handlers/bounty_routes.go
package handlers

import (
	"log"

	"hoodie-academy-service/middleware"
	"hoodie-academy-service/services"
	"hoodie-academy-service/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupBountyRoutes(app *fiber.App, bountyService *services.BountyService, userService *services.UserService) {
	app.Get("/bounties", func(c *fiber.Ctx) error {
		bounties, err := bountyService.ListBounties(false)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, bounties)
	})

	app.Get("/bounties/:id", func(c *fiber.Ctx) error {
		bounty, err := bountyService.GetBounty(c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, bounty)
	})

	secured := app.Group("/", middleware.WalletContextMiddleware(userService))

	// multipart: title, description, optional image file → R2
	secured.Post("/bounties/:id/submit", func(c *fiber.Ctx) error {
		wallet := walletFromCtx(c)
		title := c.FormValue("title")
		description := c.FormValue("description")

		imageURL := ""
		if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
			url, err := utils.UploadSubmissionImage(fileHeader, wallet, c.Params("id"))
			if err != nil {
				log.Printf("❌ submission image upload failed for %s: %v", wallet, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "image upload failed",
					"cause":   err.Error(),
				})
			}
			imageURL = url
		}

		submission, err := bountyService.Submit(wallet, c.Params("id"), title, description, imageURL)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, submission)
	})

	secured.Get("/user/bounty-submissions", func(c *fiber.Ctx) error {
		rows, err := bountyService.SubmissionsForWallet(walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, rows)
	})
}
