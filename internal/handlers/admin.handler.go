package handlers

import (
	"inkwell/internal/app"
	"inkwell/internal/cache"
	. "inkwell/internal/models"
	"inkwell/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	catalogService *services.CatalogService
	memory         *cache.Memory
	rankings       *cache.Valkey
}

func NewAdminHandler(app *app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		catalogService: app.Services.Catalog,
		memory:         app.Memory,
		rankings:       app.Rankings,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAdmin())

	admin.Post("/posts", h.importPosts)
	admin.Get("/cache/keys", h.cacheKeys)
	admin.Delete("/cache/:key", h.deleteCacheKey)
}

func (h *AdminHandler) importPosts(c *fiber.Ctx) error {
	log := h.log.Function("importPosts")

	var inputs []PostInput
	if err := c.BodyParser(&inputs); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(inputs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No posts provided",
		})
	}

	count, err := h.catalogService.ImportPosts(c.Context(), inputs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to import posts",
		})
	}

	return c.JSON(fiber.Map{"imported": count})
}

func (h *AdminHandler) cacheKeys(c *fiber.Ctx) error {
	log := h.log.Function("cacheKeys")

	search := c.Query("search")
	limit := c.QueryInt("limit", 100)

	durable, err := h.rankings.Keys(c.Context(), search, limit)
	if err != nil {
		log.Warn("failed to scan durable cache keys", "error", err)
	}

	return c.JSON(fiber.Map{
		h.memory.Name():   h.memory.Keys(search, limit),
		h.rankings.Name(): durable,
	})
}

func (h *AdminHandler) deleteCacheKey(c *fiber.Ctx) error {
	log := h.log.Function("deleteCacheKey")

	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing cache key",
		})
	}

	// The key may live in either backend; drop it from both.
	if err := h.memory.Delete(c.Context(), key); err != nil {
		log.Warn("failed to delete memory cache key", "key", key, "error", err)
	}
	if err := h.rankings.Delete(c.Context(), key); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete cache key",
		})
	}

	return c.JSON(fiber.Map{"deleted": key})
}
