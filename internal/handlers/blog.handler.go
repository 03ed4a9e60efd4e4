package handlers

import (
	"errors"
	"strings"

	"inkwell/internal/app"
	blogController "inkwell/internal/controllers/blog"
	rankingsController "inkwell/internal/controllers/rankings"
	readsController "inkwell/internal/controllers/reads"
	recommendationsController "inkwell/internal/controllers/recommendations"
	"inkwell/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type BlogHandler struct {
	Handler
	blogController            blogController.BlogControllerInterface
	rankingsController        rankingsController.RankingsControllerInterface
	recommendationsController recommendationsController.RecommendationsControllerInterface
	readsController           readsController.ReadsControllerInterface
}

func NewBlogHandler(app *app.App, router fiber.Router) *BlogHandler {
	log := logger.New("handlers").File("blog_handler")
	return &BlogHandler{
		blogController:            app.Controllers.Blog,
		rankingsController:        app.Controllers.Rankings,
		recommendationsController: app.Controllers.Recommendations,
		readsController:           app.Controllers.Reads,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BlogHandler) Register() {
	h.router.Get("/blog.json", h.listing)
	h.router.Get("/stats", h.stats)
	h.router.Get("/rankings", h.siteRankings)

	blog := h.router.Group("/blog")
	blog.Get("/:slug/reads", h.postReads)
	blog.Get("/:slug/rankings", h.postRankings)
	blog.Get("/:slug/recommendations", h.recommendations)

	reads := h.router.Group("/reads")
	reads.Post("", h.markAsRead)
	reads.Get("/me", h.myReads)
}

func (h *BlogHandler) markAsRead(c *fiber.Ctx) error {
	slug := c.FormValue("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing slug",
		})
	}

	reader := middleware.GetReader(c)
	user := middleware.GetUser(c)

	if err := h.readsController.MarkAsRead(c.Context(), slug, reader, user); err != nil {
		if errors.Is(err, readsController.ErrInvalidSlug) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid slug",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record read",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *BlogHandler) listing(c *fiber.Ctx) error {
	listings, err := h.blogController.Listing(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list posts",
		})
	}

	return c.JSON(listings)
}

func (h *BlogHandler) stats(c *fiber.Ctx) error {
	stats, err := h.blogController.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}

	return c.JSON(stats)
}

func (h *BlogHandler) postReads(c *fiber.Ctx) error {
	slug := c.Params("slug")

	totalReads, err := h.blogController.TotalReads(c.Context(), slug)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count reads",
		})
	}

	return c.JSON(fiber.Map{
		"slug":       slug,
		"totalReads": totalReads,
	})
}

func (h *BlogHandler) siteRankings(c *fiber.Ctx) error {
	return h.rankings(c, "")
}

func (h *BlogHandler) postRankings(c *fiber.Ctx) error {
	return h.rankings(c, c.Params("slug"))
}

func (h *BlogHandler) rankings(c *fiber.Ctx, slug string) error {
	rankings, err := h.rankingsController.ComputeRankings(
		c.Context(),
		slug,
		h.forceFresh(c),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute rankings",
		})
	}

	return c.JSON(rankings)
}

// forceFresh honours the ?fresh query parameter for admins only; anyone else
// gets cached values no matter what they ask for.
func (h *BlogHandler) forceFresh(c *fiber.Ctx) bool {
	if !c.Request().URI().QueryArgs().Has("fresh") {
		return false
	}

	user := middleware.GetUser(c)
	return user != nil && user.IsAdmin
}

func (h *BlogHandler) recommendations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 3)

	req := recommendationsController.Request{
		Reader:   middleware.GetReader(c),
		Keywords: splitQueryList(c.Query("keywords")),
		Excludes: append(splitQueryList(c.Query("exclude")), c.Params("slug")),
		Limit:    limit,
	}

	posts, err := h.recommendationsController.Recommend(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute recommendations",
		})
	}

	return c.JSON(posts)
}

func (h *BlogHandler) myReads(c *fiber.Ctx) error {
	slugs, err := h.readsController.ReadSlugs(c.Context(), middleware.GetReader(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reads",
		})
	}

	return c.JSON(fiber.Map{"slugs": slugs})
}

func splitQueryList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
