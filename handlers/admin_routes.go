// handlers/admin_routes.go
package handlers

import (
	"strconv"

	"hoodie-academy-service/middleware"
	"hoodie-academy-service/models"
	"hoodie-academy-service/services"

	"github.com/gofiber/fiber/v2"
)

// AdminServices bundles what the admin dashboard touches.
type AdminServices struct {
	Users    *services.UserService
	XP       *services.XPService
	Squads   *services.SquadService
	Courses  *services.CourseService
	Progress *services.ProgressService
	Exams    *services.ExamService
	Bounties *services.BountyService
	Activity *services.ActivityService
}

func SetupAdminRoutes(app *fiber.App, svc AdminServices) {
	admin := app.Group("/admin",
		middleware.WalletContextMiddleware(svc.Users),
		middleware.AdminOnlyMiddleware(),
	)

	// --- users ---

	admin.Post("/xp/adjust", func(c *fiber.Ctx) error {
		type Req struct {
			WalletAddress string `json:"wallet_address"`
			Delta         int64  `json:"delta"`
			Reason        string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c, err)
		}
		result, err := svc.XP.AdminAdjust(req.WalletAddress, req.Delta, req.Reason, walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, result)
	})

	admin.Post("/users/:wallet/ban", func(c *fiber.Ctx) error {
		type Req struct {
			Banned bool `json:"banned"`
		}
		req := Req{Banned: true}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badJSON(c, err)
			}
		}
		user, err := svc.Users.SetBanned(c.Params("wallet"), req.Banned)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, user)
	})

	admin.Delete("/users/:wallet/squad", func(c *fiber.Ctx) error {
		user, err := svc.Squads.RemoveSquad(c.Params("wallet"))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, user)
	})

	// the only backward transition in the lesson state machine
	admin.Delete("/users/:wallet/progress/:slug", func(c *fiber.Ctx) error {
		if err := svc.Progress.Reset(c.Params("wallet"), c.Params("slug")); err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, fiber.Map{"reset": true})
	})

	// --- content ---

	admin.Post("/courses", func(c *fiber.Ctx) error {
		var course models.Course
		if err := c.BodyParser(&course); err != nil {
			return badJSON(c, err)
		}
		created, err := svc.Courses.CreateCourse(&course)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, created)
	})

	admin.Patch("/courses/:slug", func(c *fiber.Ctx) error {
		var updates map[string]interface{}
		if err := c.BodyParser(&updates); err != nil {
			return badJSON(c, err)
		}
		course, err := svc.Courses.UpdateCourse(c.Params("slug"), updates)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, course)
	})

	admin.Post("/bounties", func(c *fiber.Ctx) error {
		var bounty models.Bounty
		if err := c.BodyParser(&bounty); err != nil {
			return badJSON(c, err)
		}
		created, err := svc.Bounties.CreateBounty(&bounty)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, created)
	})

	// --- review queues ---

	admin.Get("/exam-submissions/pending", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		rows, err := svc.Exams.PendingSubmissions(limit)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, rows)
	})

	admin.Post("/exam-submissions/:id/approve", func(c *fiber.Ctx) error {
		result, err := svc.Exams.ApproveSubmission(c.Params("id"), walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, result)
	})

	admin.Post("/exam-submissions/:id/reject", func(c *fiber.Ctx) error {
		type Req struct {
			Reason string `json:"reason"`
		}
		var req Req
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badJSON(c, err)
			}
		}
		submission, err := svc.Exams.RejectSubmission(c.Params("id"), walletFromCtx(c), req.Reason)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, submission)
	})

	admin.Get("/bounties/:id/submissions", func(c *fiber.Ctx) error {
		rows, err := svc.Bounties.SubmissionsForBounty(c.Params("id"),
			models.SubmissionStatus(c.Query("status")))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, rows)
	})

	admin.Post("/bounty-submissions/:id/approve", func(c *fiber.Ctx) error {
		submission, award, err := svc.Bounties.Approve(c.Params("id"), walletFromCtx(c))
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, fiber.Map{"submission": submission, "award": award})
	})

	admin.Post("/bounty-submissions/:id/reject", func(c *fiber.Ctx) error {
		type Req struct {
			Reason string `json:"reason"`
		}
		var req Req
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badJSON(c, err)
			}
		}
		submission, err := svc.Bounties.Reject(c.Params("id"), walletFromCtx(c), req.Reason)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, submission)
	})

	// --- dashboard widgets ---

	admin.Get("/stats/daily-claims", func(c *fiber.Ctx) error {
		stats, err := svc.XP.DailyClaimStats()
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, stats)
	})

	admin.Get("/activity", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		rows, err := svc.Activity.Recent(c.Query("wallet"), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, rows)
	})

	admin.Get("/courses", func(c *fiber.Ctx) error {
		courses, err := svc.Courses.ListCourses("", true)
		if err != nil {
			return respondErr(c, err)
		}
		return respondOK(c, courses)
	})
}

func badJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "invalid JSON",
		"cause":   err.Error(),
	})
}
