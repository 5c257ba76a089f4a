// middleware/wallet.go
package middleware

import (
	"log"

	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

// WalletContextMiddleware extracts the caller's wallet address, set by the
// Gateway after signature verification (X-Wallet-Address header). Routes
// under this middleware require it; banned wallets are cut off here.
func WalletContextMiddleware(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wallet := c.Get("X-Wallet-Address")
		if wallet == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing X-Wallet-Address, request must come through gateway with wallet context",
			})
		}

		user, err := users.EnsureUser(wallet)
		if err != nil {
			log.Printf("❌ [WALLET_CTX] failed to load profile for %s: %v", wallet, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "failed to load wallet profile",
			})
		}
		if user.Banned {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "wallet is banned",
			})
		}

		users.TouchLastActive(wallet)
		c.Locals("wallet_address", wallet)
		c.Locals("is_admin", user.IsAdmin)
		return c.Next()
	}
}

// AdminOnlyMiddleware guards admin routes. Must run after
// WalletContextMiddleware.
func AdminOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals("is_admin").(bool)
		if !isAdmin {
			wallet, _ := c.Locals("wallet_address").(string)
			log.Printf("🚫 [ADMIN] non-admin wallet %s hit %s", wallet, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "admin access required",
			})
		}
		return c.Next()
	}
}
