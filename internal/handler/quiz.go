package handler

import (
	"context"
	"strings"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ContentService is the read-side surface the handler needs.
type ContentService interface {
	GetTopics(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error)
	GetQuizMeta(ctx context.Context, slug string) (*domain.QuizMeta, error)
	GetQuizQuestions(ctx context.Context, slug string, offset, limit int) ([]domain.Question, error)
	GetRandomQuestions(ctx context.Context, slug string, count int, excludeIDs []string) ([]domain.Question, error)
}

// ImportService is the import surface the handler needs.
type ImportService interface {
	ImportDocument(ctx context.Context, req service.ImportRequest) (*domain.ImportResult, error)
}

// IntegrityService is the maintenance surface the handler needs.
type IntegrityService interface {
	Validate(ctx context.Context) (*domain.IntegrityReport, error)
	Fix(ctx context.Context) (*domain.IntegrityFixResult, error)
}

// QuizHandler handles quiz content HTTP requests.
type QuizHandler struct {
	content   ContentService
	importer  ImportService
	integrity IntegrityService
}

// NewQuizHandler creates a new QuizHandler instance.
func NewQuizHandler(content ContentService, importer ImportService, integrity IntegrityService) *QuizHandler {
	return &QuizHandler{
		content:   content,
		importer:  importer,
		integrity: integrity,
	}
}

// RegisterRoutes mounts the content and admin routes.
func (h *QuizHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/topics", h.GetTopics)
	api.Get("/quizzes/:slug", h.GetQuizMeta)
	api.Get("/quizzes/:slug/questions", h.GetQuizQuestions)
	api.Get("/quizzes/:slug/questions/random", h.GetRandomQuestions)

	admin := api.Group("/admin")
	admin.Post("/imports", h.ImportDocument)
	admin.Get("/integrity", h.ValidateIntegrity)
	admin.Post("/integrity/fix", h.FixIntegrity)
}

// GetTopics handles GET /api/v1/topics. The optional
// industry_specific query parameter filters by category.
func (h *QuizHandler) GetTopics(c *fiber.Ctx) error {
	var filter *bool
	if raw := c.Query("industry_specific"); raw != "" {
		flag := raw == "true" || raw == "1"
		filter = &flag
	}

	listings, err := h.content.GetTopics(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTopicResponses(listings))
}

// GetQuizMeta handles GET /api/v1/quizzes/:slug.
func (h *QuizHandler) GetQuizMeta(c *fiber.Ctx) error {
	meta, err := h.content.GetQuizMeta(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizMetaResponse(meta))
}

// GetQuizQuestions handles GET /api/v1/quizzes/:slug/questions with
// offset/limit pagination.
func (h *QuizHandler) GetQuizQuestions(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	questions, err := h.content.GetQuizQuestions(c.Context(), c.Params("slug"), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponses(questions))
}

// GetRandomQuestions handles GET
// /api/v1/quizzes/:slug/questions/random. The exclude parameter is a
// comma-separated id list.
func (h *QuizHandler) GetRandomQuestions(c *fiber.Ctx) error {
	count := c.QueryInt("count", 10)

	var excludeIDs []string
	if raw := c.Query("exclude"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				excludeIDs = append(excludeIDs, id)
			}
		}
	}

	questions, err := h.content.GetRandomQuestions(c.Context(), c.Params("slug"), count, excludeIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponses(questions))
}

// ImportDocument handles POST /api/v1/admin/imports.
func (h *QuizHandler) ImportDocument(c *fiber.Ctx) error {
	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.importer.ImportDocument(c.Context(), service.ImportRequest{
		Slug:             req.Slug,
		Markdown:         req.Markdown,
		ProvidedName:     req.ProvidedName,
		IndustrySpecific: req.IndustrySpecific,
		SourcePath:       req.SourcePath,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ImportResponse{
		QuizID:        result.QuizID,
		QuestionCount: result.QuestionCount,
	})
}

// ValidateIntegrity handles GET /api/v1/admin/integrity.
func (h *QuizHandler) ValidateIntegrity(c *fiber.Ctx) error {
	report, err := h.integrity.Validate(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// FixIntegrity handles POST /api/v1/admin/integrity/fix.
func (h *QuizHandler) FixIntegrity(c *fiber.Ctx) error {
	result, err := h.integrity.Fix(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(result)
}
