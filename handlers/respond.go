package handlers

import (
	"errors"

	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

// respondOK wraps payloads in the conventional { success, data } envelope.
func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// respondErr translates service errors into HTTP statuses:
// validation → 400, not found → 404, forbidden → 403, conflicts and
// double-claims → 409, squad lock → 423, everything else → 500.
func respondErr(c *fiber.Ctx, err error) error {
	var locked *services.SquadLockedError
	if errors.As(err, &locked) {
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"success":        false,
			"error":          locked.Error(),
			"current_squad":  locked.CurrentSquad,
			"target_squad":   locked.TargetSquad,
			"lock_ends_at":   locked.LockEndsAt,
			"remaining_days": locked.RemainingDays,
		})
	}

	var claimed *services.AlreadyClaimedError
	if errors.As(err, &claimed) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":   false,
			"error":     claimed.Error(),
			"claim_day": claimed.ClaimDay,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func walletFromCtx(c *fiber.Ctx) string {
	wallet, _ := c.Locals("wallet_address").(string)
	return wallet
}
